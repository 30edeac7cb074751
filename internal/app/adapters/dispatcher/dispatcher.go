package dispatcher

import (
	"buttonhandler/internal/app/adapters/actions"
	"buttonhandler/internal/app/adapters/metrics"
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/infrastructure/config"
	"buttonhandler/internal/app/infrastructure/storage"
	"buttonhandler/internal/app/ports"
	"buttonhandler/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformedEvent = errors.New("malformed event")
	ErrAccessDenied   = errors.New("access denied")
)

const (
	outcomeExecuted  = "executed"
	outcomeRejected  = "rejected"
	outcomeDenied    = "denied"
	outcomeFailed    = "failed"
	outcomeDuplicate = "duplicate"
)

type Dispatcher struct {
	log      logger.Logger
	cfg      config.Dispatcher
	registry *actions.Registry
	deps     actions.Deps
	seen     *storage.Cache[struct{}]
}

func New(log logger.Logger, cfg config.Dispatcher, registry *actions.Registry, deps actions.Deps) *Dispatcher {
	d := &Dispatcher{
		log:      logger.NewPrefixedLogger(log, "dispatcher"),
		cfg:      cfg,
		registry: registry,
		deps:     deps,
	}
	if cfg.DedupeTTL > 0 {
		d.seen = storage.NewCache[struct{}](cfg.DedupeCapacity, cfg.DedupeTTL)
	}
	return d
}

var _ ports.DispatcherPort = (*Dispatcher)(nil)

// Handle обрабатывает одно нажатие. Пользователь получает ровно один ответ при любом исходе.
func (d *Dispatcher) Handle(ctx context.Context, ev *event.Event) {
	if ev == nil {
		d.log.Warn("Nil event received")
		metrics.ClicksTotal.WithLabelValues(outcomeFailed).Inc()
		return
	}

	start := time.Now()
	defer func() {
		metrics.ClickProcessingTime.Observe(time.Since(start).Seconds())
	}()

	if d.duplicate(ev) {
		d.log.Debug("Duplicate click dropped", "event_id", ev.ID)
		metrics.ClicksTotal.WithLabelValues(outcomeDuplicate).Inc()
		return
	}

	log := d.log.With("event_id", ev.ID, "bpid", ev.Peer.ID, "cmid", ev.Button.MessageID, "uuid", ev.User.ID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while handling click", fmt.Errorf("panic: %v", r))
			metrics.ClicksTotal.WithLabelValues(outcomeFailed).Inc()
			d.release(ctx, log, ev)
			d.fallback(ctx, log, actions.Error, ev)
		}
	}()

	clickCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	name, executed, err := d.dispatch(clickCtx, ev)
	switch {
	case err == nil && executed:
		log.Debug("Action executed", "action", name)
		metrics.ClicksTotal.WithLabelValues(outcomeExecuted).Inc()
		metrics.ActionsTotal.WithLabelValues(string(name)).Inc()
	case err == nil:
		log.Debug("Not a single action was executed", "action", name)
		metrics.ClicksTotal.WithLabelValues(outcomeRejected).Inc()
	case errors.Is(err, ErrAccessDenied):
		log.Error("Access denied", err, "action", name)
		metrics.ClicksTotal.WithLabelValues(outcomeDenied).Inc()
		d.fallback(ctx, log, actions.RejectAccess, ev)
	default:
		log.Error("Failed to handle click", err, "action", name)
		metrics.ClicksTotal.WithLabelValues(outcomeFailed).Inc()
		d.release(ctx, log, ev)
		d.fallback(ctx, log, actions.Error, ev)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev *event.Event) (actions.Name, bool, error) {
	payload := ev.Button.Payload
	if payload == nil {
		return "", false, fmt.Errorf("%w: no payload", ErrMalformedEvent)
	}
	name := actions.Name(payload.ActionName())

	if err := d.authorize(ctx, ev); err != nil {
		return name, false, err
	}

	construct, err := d.registry.Lookup(string(name))
	if err != nil {
		return name, false, err
	}

	executed, err := construct(d.deps).Execute(ctx, ev)
	if errors.Is(err, actions.ErrSessionTaken) {
		return name, false, fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}
	return name, executed, err
}

// authorize пускает к клавиатуре только её владельца и только пока меню не занято другим.
func (d *Dispatcher) authorize(ctx context.Context, ev *event.Event) error {
	owner, ok := ev.Button.Payload.KeyboardOwner()
	if !ok {
		return fmt.Errorf("%w: no keyboard owner", ErrAccessDenied)
	}
	if owner != ev.User.ID {
		return fmt.Errorf("%w: keyboard belongs to %d", ErrAccessDenied, owner)
	}

	holder, live, err := d.deps.Sessions.Owner(ctx, menuKey(ev), d.now())
	if err != nil {
		return fmt.Errorf("menu session owner: %w", err)
	}
	if live && holder != ev.User.ID {
		return fmt.Errorf("%w: menu is open by %d", ErrAccessDenied, holder)
	}
	return nil
}

// fallback отвечает пользователю на свежем контексте, даже если само нажатие истекло по таймауту.
func (d *Dispatcher) fallback(parent context.Context, log logger.Logger, name actions.Name, ev *event.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.cfg.FallbackTimeout)
	defer cancel()

	construct, err := d.registry.Lookup(string(name))
	if err != nil {
		log.Error("Fallback action is not registered", err, "action", name)
		return
	}

	if _, err := construct(d.deps).Execute(ctx, ev); err != nil {
		log.Error("Failed to execute fallback action", err, "action", name)
	}
}

func (d *Dispatcher) release(parent context.Context, log logger.Logger, ev *event.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.cfg.FallbackTimeout)
	defer cancel()

	if err := d.deps.Sessions.Release(ctx, menuKey(ev)); err != nil {
		log.Warn("Failed to release menu session", "error", err)
	}
}

func (d *Dispatcher) duplicate(ev *event.Event) bool {
	if d.seen == nil {
		return false
	}

	id := ev.ID
	if id == "" {
		id = ev.Button.EventID
	}
	if id == "" {
		return false
	}
	return !d.seen.Remember(id, struct{}{})
}

func (d *Dispatcher) now() time.Time {
	if d.deps.Now != nil {
		return d.deps.Now()
	}
	return time.Now()
}

func menuKey(ev *event.Event) ports.MenuKey {
	return ports.MenuKey{PeerID: ev.Peer.ID, MessageID: ev.Button.MessageID}
}
