package http

import (
	"buttonhandler/internal/app/adapters/http/handlers"
	"buttonhandler/internal/app/adapters/http/middlewares"
	"buttonhandler/internal/app/infrastructure/config"
	"buttonhandler/pkg/logger"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router      *gin.Engine
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, pingers map[string]handlers.Pinger) *Router {
	r := &Router{
		router:      gin.New(),
		handlers:    handlers.New(log, manager, pingers),
		middlewares: middlewares.New(),
		log:         log,
		manager:     manager,
	}
	r.router.Use(gin.Recovery())
	cfg := manager.Get()

	accounts := gin.BasicAuth(gin.Accounts{
		"admin": cfg.App.AuthToken,
	})

	pprofGroup := r.router.Group("/", accounts)
	pprof.Register(pprofGroup)

	r.router.GET("/metrics", accounts, gin.WrapH(promhttp.Handler()))

	r.router.GET("/", r.handlers.IndexHandler)
	r.router.GET("/healthz", r.handlers.HealthHandler)
	r.router.PUT("/log-level", r.middlewares.Auth(cfg.App.AuthToken), r.handlers.LogLevelHandler)
	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run обслуживает запросы до отмены ctx.
func (r *Router) Run(ctx context.Context) error {
	srv := r.newServer(r.manager.Get().App.Listen, r.router)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}
