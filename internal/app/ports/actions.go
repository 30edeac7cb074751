package ports

import (
	"buttonhandler/internal/app/domain/event"
	"context"
)

// ActionPort - реакция на нажатие кнопки. true - действие что-то изменило,
// false - отклонено бизнес-правилом, ответ пользователю уже отправлен.
type ActionPort interface {
	Execute(ctx context.Context, ev *event.Event) (bool, error)
}

type DispatcherPort interface {
	Handle(ctx context.Context, ev *event.Event)
}
