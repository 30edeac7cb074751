package ports

import (
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/domain/keyboard"
	"context"
)

type MessengerPort interface {
	Edit(ctx context.Context, peerID, messageID int64, text string, kb *keyboard.Keyboard) error
	Delete(ctx context.Context, peerID, messageID int64) error
	Snackbar(ctx context.Context, ev *event.Event, text string) error
}
