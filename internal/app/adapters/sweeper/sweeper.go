package sweeper

import (
	"buttonhandler/internal/app/adapters/metrics"
	"buttonhandler/internal/app/ports"
	"buttonhandler/pkg/logger"
	"context"
	"time"
)

const timerID = "menu_sessions_sweep"

// Sweeper периодически удаляет истёкшие сессии меню.
type Sweeper struct {
	log      logger.Logger
	sessions ports.SessionsPort
	timeout  time.Duration
	now      func() time.Time
}

func New(log logger.Logger, sessions ports.SessionsPort, timeout time.Duration) *Sweeper {
	return &Sweeper{
		log:      logger.NewPrefixedLogger(log, "sweeper"),
		sessions: sessions,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Schedule ставит очистку в колесо таймеров. Задача перестаёт работать после отмены ctx.
func (s *Sweeper) Schedule(ctx context.Context, timers ports.TimersPort, interval time.Duration) {
	timers.AddTimer(timerID, interval, func() {
		if ctx.Err() != nil {
			return
		}
		s.Sweep(ctx)
	})
}

func (s *Sweeper) Sweep(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.sessions.Sweep(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to sweep menu sessions", err)
		return 0
	}

	if n > 0 {
		metrics.SessionsSwept.Add(float64(n))
		s.log.Debug("Expired menu sessions removed", "count", n)
	}
	return n
}
