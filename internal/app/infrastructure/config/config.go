package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Manager struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// New читает config.json, при отсутствии файла записывает значения по умолчанию.
// Поверх файла накладываются переменные окружения BH_* (включая .env рядом с конфигом).
func New(path string) (*Manager, error) {
	m := &Manager{path: path}

	cfg, err := m.readParse(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg = m.GetDefault()
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal config: %w", err)
		}

		if err := m.writeAtomic(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(cfg, filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	if err := m.validate(cfg); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	m.cfg = cfg

	return m, nil
}

func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.cfg
}

func (m *Manager) Update(modify func(cfg *Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg == nil {
		return errors.New("no config loaded")
	}

	next := *m.cfg
	modify(&next)

	if err := m.validate(&next); err != nil {
		return fmt.Errorf("invalid config update: %w", err)
	}

	prev := m.cfg
	m.cfg = &next
	if err := m.saveLocked(); err != nil {
		m.cfg = prev
		return err
	}
	return nil
}

func (m *Manager) readParse(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("no config path provided")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open/read config: %w", err)
	}

	cfg := m.GetDefault()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, dotenv string) error {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenv, err)
	}

	overlay, err := env.ParseAs[envOverlay]()
	if err != nil {
		return err
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.App.LogLevel, overlay.LogLevel)
	set(&cfg.App.AuthToken, overlay.AuthToken)
	set(&cfg.VK.Token, overlay.VKToken)
	set(&cfg.Broker.URL, overlay.BrokerURL)
	set(&cfg.Database.Driver, overlay.DatabaseDriver)
	set(&cfg.Database.DSN, overlay.DatabaseDSN)

	return nil
}

func (m *Manager) saveLocked() error {
	if m.path == "" {
		return errors.New("no config file loaded")
	}
	if m.cfg == nil {
		return errors.New("no config to save")
	}

	data, err := json.MarshalIndent(m.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return m.writeAtomic(m.path, data, 0644)
}

func (m *Manager) writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", base, time.Now().UnixNano()))

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
