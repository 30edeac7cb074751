package config

import (
	"errors"
	"fmt"
	"strings"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error, fatal; got %s", cfg.App.LogLevel)
	}
	if cfg.App.GinMode != "" && cfg.App.GinMode != "debug" && cfg.App.GinMode != "release" && cfg.App.GinMode != "test" {
		return fmt.Errorf("app.gin_mode must be debug, release or test; got %s", cfg.App.GinMode)
	}
	if cfg.App.Listen == "" {
		return errors.New("app.listen is required")
	}

	// vk
	if cfg.VK.Token == "" {
		return errors.New("vk.token is required")
	}
	if cfg.VK.APIVersion == "" {
		return errors.New("vk.api_version is required")
	}
	if !strings.HasPrefix(cfg.VK.BaseURL, "http://") && !strings.HasPrefix(cfg.VK.BaseURL, "https://") {
		return errors.New("vk.base_url must be an http(s) url")
	}
	if cfg.VK.RequestsPerSecond < 1 {
		return errors.New("vk.requests_per_second must be >= 1")
	}
	if cfg.VK.Timeout <= 0 {
		return errors.New("vk.timeout must be positive")
	}

	// proxy
	if cfg.Proxy != nil {
		if cfg.Proxy.Address == "" {
			return errors.New("proxy.address is required when proxy is set")
		}
		if cfg.Proxy.Port < 1 || cfg.Proxy.Port > 65535 {
			return errors.New("proxy.port must be [1,65535]")
		}
	}

	// broker
	if cfg.Broker.URL == "" {
		return errors.New("broker.url is required")
	}
	if cfg.Broker.Queue == "" {
		return errors.New("broker.queue is required")
	}
	if cfg.Broker.PopTimeout <= 0 {
		return errors.New("broker.pop_timeout must be positive")
	}

	// database
	if cfg.Database.Driver != DriverPostgres && cfg.Database.Driver != DriverSQLite {
		return fmt.Errorf("database.driver must be %q or %q; got %q", DriverPostgres, DriverSQLite, cfg.Database.Driver)
	}
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if cfg.Database.MaxOpenConns < 0 {
		return errors.New("database.max_open_conns must be >= 0")
	}

	// dispatcher
	if cfg.Dispatcher.Timeout <= 0 {
		return errors.New("dispatcher.timeout must be positive")
	}
	if cfg.Dispatcher.FallbackTimeout <= 0 {
		return errors.New("dispatcher.fallback_timeout must be positive")
	}
	if cfg.Dispatcher.DedupeTTL < 0 {
		return errors.New("dispatcher.dedupe_ttl must be >= 0")
	}
	if cfg.Dispatcher.DedupeTTL > 0 && cfg.Dispatcher.DedupeCapacity < 1 {
		return errors.New("dispatcher.dedupe_capacity must be >= 1 when dedupe is enabled")
	}

	// sessions
	if cfg.Sessions.DefaultTTL <= 0 {
		return errors.New("sessions.default_ttl must be positive")
	}
	if cfg.Sessions.SweepInterval <= 0 {
		return errors.New("sessions.sweep_interval must be positive")
	}

	// staff
	for _, uuid := range cfg.Staff {
		if uuid <= 0 {
			return fmt.Errorf("staff must contain positive user ids; got %d", uuid)
		}
	}

	return nil
}
