package config

import "time"

type Config struct {
	App        App        `json:"app"`
	VK         VK         `json:"vk"`
	Proxy      *Proxy     `json:"proxy"`
	Broker     Broker     `json:"broker"`
	Database   Database   `json:"database"`
	Dispatcher Dispatcher `json:"dispatcher"`
	Sessions   Sessions   `json:"sessions"`
	// Staff - uuid технического персонала, роль выдаётся при старте.
	Staff      []int64    `json:"staff"`
}

type App struct {
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	GinMode   string `json:"gin_mode"`
	Listen    string `json:"listen"`
	AuthToken string `json:"auth_token"` // пароль для /metrics и /debug/pprof
}

type VK struct {
	Token             string        `json:"token"`
	APIVersion        string        `json:"api_version"`
	BaseURL           string        `json:"base_url"`
	RequestsPerSecond int           `json:"requests_per_second"`
	Timeout           time.Duration `json:"timeout"`
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Broker struct {
	URL        string        `json:"url"`
	Queue      string        `json:"queue"`
	PopTimeout time.Duration `json:"pop_timeout"`
}

type Database struct {
	Driver       string `json:"driver"` // "pgx" или "sqlite"
	DSN          string `json:"dsn"`
	MaxOpenConns int    `json:"max_open_conns"`
}

type Dispatcher struct {
	Timeout         time.Duration `json:"timeout"`          // на одно нажатие
	FallbackTimeout time.Duration `json:"fallback_timeout"` // на ответ error/reject_access
	DedupeTTL       time.Duration `json:"dedupe_ttl"`       // 0 - без дедупликации
	DedupeCapacity  int           `json:"dedupe_capacity"`
}

type Sessions struct {
	DefaultTTL    time.Duration `json:"default_ttl"`
	SweepInterval time.Duration `json:"sweep_interval"`
}

// envOverlay - секреты и адреса, которые можно задать через окружение или .env.
type envOverlay struct {
	LogLevel       string `env:"BH_LOG_LEVEL"`
	AuthToken      string `env:"BH_AUTH_TOKEN"`
	VKToken        string `env:"BH_VK_TOKEN"`
	BrokerURL      string `env:"BH_REDIS_URL"`
	DatabaseDriver string `env:"BH_DB_DRIVER"`
	DatabaseDSN    string `env:"BH_DB_DSN"`
}
