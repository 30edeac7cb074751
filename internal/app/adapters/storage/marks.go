package storage

import (
	"buttonhandler/internal/app/domain/mark"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Marks struct {
	db *sqlx.DB
}

func NewMarks(db *sqlx.DB) *Marks {
	return &Marks{db: db}
}

func (m *Marks) Get(ctx context.Context, bpid int64) (mark.Mark, bool, error) {
	var raw string
	query := m.db.Rebind(`SELECT mark FROM peers WHERE bpid = ?`)
	err := m.db.GetContext(ctx, &raw, query, bpid)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("select mark: %w", err)
	}

	parsed, err := mark.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("stored mark of %d: %w", bpid, err)
	}
	return parsed, true, nil
}

// Set регистрирует беседу и в той же транзакции заполняет её настройки.
func (m *Marks) Set(ctx context.Context, bpid int64, name string, mk mark.Mark) (bool, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`INSERT INTO peers (bpid, name, mark) VALUES (?, ?, ?)
		ON CONFLICT (bpid) DO NOTHING`)
	res, err := tx.ExecContext(ctx, query, bpid, name, mk.String())
	if err != nil {
		return false, fmt.Errorf("insert peer: %w", err)
	}

	inserted, err := affected(res)
	if err != nil || !inserted {
		return false, err
	}

	if err := seed(ctx, tx, bpid); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func (m *Marks) UpdateName(ctx context.Context, bpid int64, name string) (bool, error) {
	query := m.db.Rebind(`UPDATE peers SET name = ? WHERE bpid = ?`)
	res, err := m.db.ExecContext(ctx, query, name, bpid)
	if err != nil {
		return false, fmt.Errorf("update peer: %w", err)
	}
	return affected(res)
}

// Drop снимает метку и удаляет настройки беседы. Роли пользователей остаются.
func (m *Marks) Drop(ctx context.Context, bpid int64) (mark.Mark, bool, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.GetContext(ctx, &raw, tx.Rebind(`DELETE FROM peers WHERE bpid = ? RETURNING mark`), bpid)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("delete peer: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM settings WHERE bpid = ?`), bpid); err != nil {
		return "", false, fmt.Errorf("delete settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("commit: %w", err)
	}

	return mark.Mark(raw), true, nil
}
