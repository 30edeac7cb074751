package broker

import (
	"buttonhandler/internal/app/adapters/metrics"
	"buttonhandler/internal/app/domain/event"
	"buttonhandler/internal/app/infrastructure/config"
	"buttonhandler/internal/app/ports"
	"buttonhandler/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reconnectDelay = time.Second

// Redis читает события нажатий из списка через BLPOP.
type Redis struct {
	log        logger.Logger
	client     *redis.Client
	queue      string
	popTimeout time.Duration
}

var _ ports.SubscriberPort = (*Redis)(nil)

func NewRedis(ctx context.Context, log logger.Logger, cfg config.Broker) (*Redis, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	c := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return newRedis(log, c, cfg.Queue, cfg.PopTimeout), nil
}

func newRedis(log logger.Logger, client *redis.Client, queue string, popTimeout time.Duration) *Redis {
	return &Redis{
		log:        log,
		client:     client,
		queue:      queue,
		popTimeout: popTimeout,
	}
}

// Listen блокируется до отмены ctx. Ошибки чтения и разбора логируются и не прерывают цикл.
func (r *Redis) Listen(ctx context.Context, handler ports.EventHandler) error {
	r.log.Info("Listening for events", "queue", r.queue)

	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := r.client.BLPop(ctx, r.popTimeout, r.queue).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case ctx.Err() != nil:
			return nil
		case err != nil:
			metrics.BrokerErrors.WithLabelValues("receive").Inc()
			r.log.Error("Failed to pop event", err, "queue", r.queue)
			if !sleep(ctx, reconnectDelay) {
				return nil
			}
			continue
		}

		// BLPOP возвращает [ключ, значение]
		if len(res) != 2 {
			continue
		}
		r.handleRaw(ctx, []byte(res[1]), handler)
	}
}

func (r *Redis) handleRaw(ctx context.Context, raw []byte, handler ports.EventHandler) {
	ev, err := event.Decode(raw)
	if err != nil {
		metrics.BrokerErrors.WithLabelValues("decode").Inc()
		r.log.Error("Failed to decode event", err, "body", string(raw))
		return
	}

	r.log.Trace("Event received", "event_id", ev.ID)
	handler(ctx, ev)
}

// Publish кладёт событие в очередь. Используется для повторной отправки и в тестовом окружении.
func (r *Redis) Publish(ctx context.Context, raw []byte) error {
	return r.client.RPush(ctx, r.queue, raw).Err()
}

func (r *Redis) PingContext(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
