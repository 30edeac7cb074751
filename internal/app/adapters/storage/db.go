package storage

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS peers (
		bpid BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		mark TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff (
		uuid BIGINT PRIMARY KEY,
		role TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS permissions (
		bpid BIGINT NOT NULL,
		uuid BIGINT NOT NULL,
		role INTEGER NOT NULL,
		PRIMARY KEY (bpid, uuid)
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		bpid BIGINT NOT NULL,
		destination TEXT NOT NULL,
		name TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 0,
		delay INTEGER NOT NULL DEFAULT 0,
		points INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (bpid, destination, name)
	)`,
	`CREATE TABLE IF NOT EXISTS menu_sessions (
		bpid BIGINT NOT NULL,
		cmid BIGINT NOT NULL,
		owner_id BIGINT NOT NULL,
		expires_at BIGINT NOT NULL,
		PRIMARY KEY (bpid, cmid)
	)`,
	`CREATE INDEX IF NOT EXISTS menu_sessions_expires_at ON menu_sessions (expires_at)`,
}

// Open подключается к базе и создаёт недостающие таблицы.
func Open(ctx context.Context, driver, dsn string, maxOpenConns int) (*sqlx.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// sqlite пишет в один файл, лишние соединения дают SQLITE_BUSY
	if driver == DriverSQLite {
		maxOpenConns = 1
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return db, nil
}
