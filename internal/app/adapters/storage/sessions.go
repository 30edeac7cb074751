package storage

import (
	"buttonhandler/internal/app/ports"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Sessions хранит владельцев открытых меню. Время - unix миллисекунды.
type Sessions struct {
	db *sqlx.DB
}

func NewSessions(db *sqlx.DB) *Sessions {
	return &Sessions{db: db}
}

func (s *Sessions) Owner(ctx context.Context, key ports.MenuKey, now time.Time) (int64, bool, error) {
	var owner int64
	query := s.db.Rebind(`SELECT owner_id FROM menu_sessions WHERE bpid = ? AND cmid = ? AND expires_at > ?`)
	err := s.db.GetContext(ctx, &owner, query, key.PeerID, key.MessageID, now.UnixMilli())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("select session: %w", err)
	}
	return owner, true, nil
}

// Acquire занимает меню, если оно свободно, принадлежит owner или истекло к моменту now.
func (s *Sessions) Acquire(ctx context.Context, key ports.MenuKey, owner int64, now, expiresAt time.Time) (bool, error) {
	query := s.db.Rebind(`INSERT INTO menu_sessions (bpid, cmid, owner_id, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (bpid, cmid) DO UPDATE SET owner_id = excluded.owner_id, expires_at = excluded.expires_at
		WHERE menu_sessions.owner_id = excluded.owner_id OR menu_sessions.expires_at <= ?`)
	res, err := s.db.ExecContext(ctx, query,
		key.PeerID, key.MessageID, owner, expiresAt.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert session: %w", err)
	}
	return affected(res)
}

func (s *Sessions) Release(ctx context.Context, key ports.MenuKey) error {
	query := s.db.Rebind(`DELETE FROM menu_sessions WHERE bpid = ? AND cmid = ?`)
	if _, err := s.db.ExecContext(ctx, query, key.PeerID, key.MessageID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Sessions) Sweep(ctx context.Context, now time.Time) (int64, error) {
	query := s.db.Rebind(`DELETE FROM menu_sessions WHERE expires_at <= ?`)
	res, err := s.db.ExecContext(ctx, query, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	return res.RowsAffected()
}
