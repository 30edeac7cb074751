package actions

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/permission"
	"context"
	"fmt"
)

const textNoRole = "❗ Пользователь не имеет роли."

type SetPermissionAction struct {
	base
}

func (a *SetPermissionAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	return a.handleSetPermission(ctx, ev)
}

func (a *SetPermissionAction) handleSetPermission(ctx context.Context, ev *event.Event) (bool, error) {
	target, ok := ev.Button.Payload.Int64(event.KeyTarget)
	if !ok {
		return false, fmt.Errorf("%w: no target", ErrInvalidPayload)
	}

	raw, ok := ev.Button.Payload.Int(event.KeyPermission)
	if !ok {
		return false, fmt.Errorf("%w: no permission", ErrInvalidPayload)
	}

	role, err := permission.Parse(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	// роль персонала перекрывает любую роль в беседе
	current, err := a.Permissions.Get(ctx, ev.Peer.ID, target, false)
	if err != nil {
		return false, fmt.Errorf("get permission: %w", err)
	}
	if current == permission.Staff {
		return false, a.snackbar(ctx, ev, fmt.Sprintf("❗Пользователь уже имеет роль \"%s\".", current.Title()))
	}

	changed, err := a.Permissions.Set(ctx, ev.Peer.ID, target, role)
	if err != nil {
		return false, fmt.Errorf("set permission: %w", err)
	}

	if !changed {
		return false, a.snackbar(ctx, ev, fmt.Sprintf("❗Пользователь уже имеет роль \"%s\".", role.Title()))
	}
	return true, a.snackbar(ctx, ev, fmt.Sprintf("⚒️ Пользователю назначена роль \"%s\".", role.Title()))
}

// DropPermissionAction сбрасывает роль в беседе. Роль персонала при этом не учитывается.
type DropPermissionAction struct {
	base
}

func (a *DropPermissionAction) Execute(ctx context.Context, ev *event.Event) (bool, error) {
	target, ok := ev.Button.Payload.Int64(event.KeyTarget)
	if !ok {
		return false, fmt.Errorf("%w: no target", ErrInvalidPayload)
	}

	current, err := a.Permissions.Get(ctx, ev.Peer.ID, target, true)
	if err != nil {
		return false, fmt.Errorf("get permission: %w", err)
	}
	if !current.Stored() {
		return false, a.snackbar(ctx, ev, textNoRole)
	}

	dropped, err := a.Permissions.Drop(ctx, ev.Peer.ID, target)
	if err != nil {
		return false, fmt.Errorf("drop permission: %w", err)
	}

	if !dropped {
		return false, a.snackbar(ctx, ev, textNoRole)
	}
	return true, a.snackbar(ctx, ev, "⚒️ Роль пользователя сброшена.")
}
