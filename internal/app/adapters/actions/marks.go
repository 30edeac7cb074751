package actions

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/mark"
	"context"
	"fmt"
)

const textNoMark = "❗Беседа еще не имеет метку."

type SetMarkAction struct {
	base
}

func (a *SetMarkAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	return a.handleSetMark(ctx, ev)
}

func (a *SetMarkAction) handleSetMark(ctx context.Context, ev *event.Event) (bool, error) {
	m, err := mark.Parse(ev.Button.Payload.String(event.KeyMark))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	created, err := a.Marks.Set(ctx, ev.Peer.ID, ev.Peer.Name, m)
	if err != nil {
		return false, fmt.Errorf("set mark: %w", err)
	}

	if !created {
		current, _, err := a.Marks.Get(ctx, ev.Peer.ID)
		if err != nil {
			return false, fmt.Errorf("get mark: %w", err)
		}
		return false, a.snackbar(ctx, ev, fmt.Sprintf("❗Беседа уже имеет метку \"%s\".", current))
	}

	return true, a.snackbar(ctx, ev, fmt.Sprintf("📝 Беседа помечена как \"%s\".", m))
}

type UpdatePeerDataAction struct {
	base
}

func (a *UpdatePeerDataAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	updated, err := a.Marks.UpdateName(ctx, ev.Peer.ID, ev.Peer.Name)
	if err != nil {
		return false, fmt.Errorf("update peer: %w", err)
	}

	if !updated {
		return false, a.snackbar(ctx, ev, textNoMark)
	}
	return true, a.snackbar(ctx, ev, "📝 Данные беседы обновлены.")
}

type DropMarkAction struct {
	base
}

func (a *DropMarkAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	dropped, found, err := a.Marks.Drop(ctx, ev.Peer.ID)
	if err != nil {
		return false, fmt.Errorf("drop mark: %w", err)
	}

	if !found {
		return false, a.snackbar(ctx, ev, textNoMark)
	}
	return true, a.snackbar(ctx, ev, fmt.Sprintf("📝 Метка \"%s\" снята с беседы.", dropped))
}
