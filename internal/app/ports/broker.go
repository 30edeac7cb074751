package ports

import (
	"buttonhandler/internal/app/domain/event"
	"context"
)

type EventHandler func(ctx context.Context, ev *event.Event)

type SubscriberPort interface {
	Listen(ctx context.Context, handle EventHandler) error
	Close() error
}
