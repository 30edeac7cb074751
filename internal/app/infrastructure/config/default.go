package config

import "time"

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			LogFile:  "logs/main.log",
			GinMode:  "release",
			Listen:   ":8080",
		},
		VK: VK{
			APIVersion:        "5.199",
			BaseURL:           "https://api.vk.com/method",
			RequestsPerSecond: 20,
			Timeout:           10 * time.Second,
		},
		Broker: Broker{
			URL:        "redis://localhost:6379/0",
			Queue:      "buttonhandler:events",
			PopTimeout: 5 * time.Second,
		},
		Database: Database{
			Driver:       DriverSQLite,
			DSN:          "file:buttonhandler.db?_pragma=busy_timeout(5000)",
			MaxOpenConns: 10,
		},
		Dispatcher: Dispatcher{
			Timeout:         10 * time.Second,
			FallbackTimeout: 3 * time.Second,
			DedupeTTL:       time.Minute,
			DedupeCapacity:  10_000,
		},
		Sessions: Sessions{
			DefaultTTL:    10 * time.Minute,
			SweepInterval: time.Minute,
		},
	}
}
