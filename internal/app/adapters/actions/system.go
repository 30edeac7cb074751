package actions

import (
	"buttonhandler/internal/app/domain/event"
	"context"
)

const (
	textError         = "⚠️ Что-то пошло не так."
	textRejectAccess  = "⚠️ Отказано в доступе."
	textMenuClosed    = "❌ Меню закрыто."
	textCommandCancel = "❗Отмена команды."
)

type ErrorAction struct {
	base
}

func (a *ErrorAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	return false, a.snackbar(ctx, ev, textError)
}

type RejectAccessAction struct {
	base
}

func (a *RejectAccessAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	return false, a.snackbar(ctx, ev, textRejectAccess)
}

type CloseMenuAction struct {
	base
}

func (a *CloseMenuAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	if err := a.closeMessage(ctx, ev, textMenuClosed); err != nil {
		return false, err
	}
	return true, nil
}

// CancelCommandAction отменяет команду, вызвавшую меню.
type CancelCommandAction struct {
	base
}

func (a *CancelCommandAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	if err := a.closeMessage(ctx, ev, textCommandCancel); err != nil {
		return false, err
	}
	return true, nil
}
