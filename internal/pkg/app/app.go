package app

import (
	"buttonhandler/internal/app/adapters/actions"
	"buttonhandler/internal/app/adapters/broker"
	"buttonhandler/internal/app/adapters/dispatcher"
	router "buttonhandler/internal/app/adapters/http"
	"buttonhandler/internal/app/adapters/http/handlers"
	"buttonhandler/internal/app/adapters/metrics"
	"buttonhandler/internal/app/adapters/platform/vk/api"
	"buttonhandler/internal/app/adapters/storage"
	"buttonhandler/internal/app/adapters/sweeper"
	"buttonhandler/internal/app/domain/permission"
	"buttonhandler/internal/app/infrastructure/config"
	"buttonhandler/internal/app/infrastructure/timers"
	"buttonhandler/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	configPath = "config.json"

	wheelTick  = time.Second
	wheelSlots = 60
)

// New собирает сервис и блокируется до отмены ctx.
func New(ctx context.Context) error {
	bootLog := logger.New(logger.Options{})

	manager, err := config.New(configPath)
	if err != nil {
		bootLog.Error("Error loading config", err)
		return err
	}
	cfg := manager.Get()

	log := logger.New(logger.Options{File: cfg.App.LogFile, Level: cfg.App.LogLevel})
	gin.SetMode(cfg.App.GinMode)

	prometheus.MustRegister(metrics.ClickProcessingTime)

	client, err := api.NewHTTPClient(cfg.VK.Timeout, cfg.Proxy)
	if err != nil {
		log.Error("Error creating http client", err)
		return err
	}
	vk := api.New(logger.NewPrefixedLogger(log, "vk"), cfg.VK, client)

	db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	if err != nil {
		log.Error("Error opening database", err, "driver", cfg.Database.Driver)
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", err)
		}
	}()

	permissions := storage.NewPermissions(db)
	for _, uuid := range cfg.Staff {
		if err := permissions.GrantStaff(ctx, uuid, permission.StaffTech); err != nil {
			log.Error("Error granting staff role", err, "uuid", uuid)
			return err
		}
	}

	sessions := storage.NewSessions(db)
	deps := actions.Deps{
		Messenger:   vk,
		Settings:    storage.NewSettings(db),
		Permissions: permissions,
		Marks:       storage.NewMarks(db),
		Sessions:    sessions,
		SessionTTL:  cfg.Sessions.DefaultTTL,
	}
	d := dispatcher.New(log, cfg.Dispatcher, actions.NewRegistry(), deps)

	sub, err := broker.NewRedis(ctx, logger.NewPrefixedLogger(log, "broker"), cfg.Broker)
	if err != nil {
		log.Error("Error connecting to broker", err, "queue", cfg.Broker.Queue)
		return err
	}
	defer func() {
		if err := sub.Close(); err != nil {
			log.Error("Error closing broker", err)
		}
	}()

	tw := timers.NewTimingWheel(wheelTick, wheelSlots)
	defer tw.Stop()
	sweeper.New(log, sessions, cfg.Dispatcher.Timeout).Schedule(ctx, tw, cfg.Sessions.SweepInterval)

	r := router.NewRouter(log, manager, map[string]handlers.Pinger{
		"database": db,
		"broker":   sub,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cancel()

			if err := fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	run("http", r.Run)
	run("broker", func(ctx context.Context) error {
		return sub.Listen(ctx, d.Handle)
	})

	log.Info("Button handler started", "listen", cfg.App.Listen, "queue", cfg.Broker.Queue)
	wg.Wait()
	log.Info("Button handler stopped")

	return errors.Join(errs...)
}
