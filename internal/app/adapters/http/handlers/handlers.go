package handlers

import (
	"buttonhandler/internal/app/infrastructure/config"
	"buttonhandler/pkg/logger"
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
)

// Pinger - база или брокер, доступность которых показывает /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	log     logger.Logger
	manager *config.Manager
	pingers map[string]Pinger
	started time.Time
}

func New(log logger.Logger, manager *config.Manager, pingers map[string]Pinger) *Handlers {
	return &Handlers{
		log:     log,
		manager: manager,
		pingers: pingers,
		started: time.Now(),
	}
}

type statusResponse struct {
	Uptime     string  `json:"uptime"`
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   uint64  `json:"memory_mb"`
	Goroutines int     `json:"goroutines"`
	LogLevel   string  `json:"log_level"`
}

func (h *Handlers) IndexHandler(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var cpuPercent float64
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		cpuPercent = percent[0]
	}

	c.JSON(http.StatusOK, statusResponse{
		Uptime:     time.Since(h.started).Truncate(time.Second).String(),
		CPUPercent: cpuPercent,
		MemoryMB:   m.Sys / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
		LogLevel:   h.log.GetLogLevel(),
	})
}

func (h *Handlers) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	result := make(map[string]string, len(h.pingers))
	status := http.StatusOK
	for name, p := range h.pingers {
		if err := p.PingContext(ctx); err != nil {
			h.log.Warn("Health check failed", "component", name, "error", err.Error())
			result[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	c.JSON(status, result)
}

type logLevelRequest struct {
	Level string `json:"level" binding:"required"`
}

// LogLevelHandler меняет уровень логов на лету и сохраняет его в config.json.
func (h *Handlers) LogLevelHandler(c *gin.Context) {
	var req logLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.manager.Update(func(cfg *config.Config) {
		cfg.App.LogLevel = req.Level
	}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.SetLogLevel(req.Level)
	h.log.Info("Log level changed", "level", req.Level)
	c.JSON(http.StatusOK, gin.H{"level": h.log.GetLogLevel()})
}
