package storage

import (
	"buttonhandler/internal/app/domain/permission"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Permissions struct {
	db *sqlx.DB
}

func NewPermissions(db *sqlx.DB) *Permissions {
	return &Permissions{db: db}
}

func (p *Permissions) Get(ctx context.Context, bpid, uuid int64, ignoreStaff bool) (permission.Role, error) {
	if !ignoreStaff {
		staff, err := p.staffRole(ctx, uuid)
		if err != nil {
			return permission.User, err
		}
		if staff.Overrides() {
			return permission.Staff, nil
		}
	}

	var role int
	query := p.db.Rebind(`SELECT role FROM permissions WHERE bpid = ? AND uuid = ?`)
	err := p.db.GetContext(ctx, &role, query, bpid, uuid)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return permission.User, nil
	case err != nil:
		return permission.User, fmt.Errorf("select permission: %w", err)
	}

	parsed, err := permission.Parse(role)
	if err != nil {
		return permission.User, fmt.Errorf("stored permission %d/%d: %w", bpid, uuid, err)
	}
	return parsed, nil
}

func (p *Permissions) Set(ctx context.Context, bpid, uuid int64, role permission.Role) (bool, error) {
	if role == permission.User {
		return p.Drop(ctx, bpid, uuid)
	}
	if !role.Stored() {
		return false, fmt.Errorf("role %s cannot be assigned in a conversation", role)
	}

	query := p.db.Rebind(`INSERT INTO permissions (bpid, uuid, role) VALUES (?, ?, ?)
		ON CONFLICT (bpid, uuid) DO UPDATE SET role = excluded.role
		WHERE permissions.role <> excluded.role`)
	res, err := p.db.ExecContext(ctx, query, bpid, uuid, int(role))
	if err != nil {
		return false, fmt.Errorf("upsert permission: %w", err)
	}

	return affected(res)
}

func (p *Permissions) Drop(ctx context.Context, bpid, uuid int64) (bool, error) {
	query := p.db.Rebind(`DELETE FROM permissions WHERE bpid = ? AND uuid = ?`)
	res, err := p.db.ExecContext(ctx, query, bpid, uuid)
	if err != nil {
		return false, fmt.Errorf("delete permission: %w", err)
	}

	return affected(res)
}

// GrantStaff выдаёт глобальную роль персонала.
func (p *Permissions) GrantStaff(ctx context.Context, uuid int64, role permission.StaffRole) error {
	query := p.db.Rebind(`INSERT INTO staff (uuid, role) VALUES (?, ?)
		ON CONFLICT (uuid) DO UPDATE SET role = excluded.role`)
	if _, err := p.db.ExecContext(ctx, query, uuid, string(role)); err != nil {
		return fmt.Errorf("upsert staff: %w", err)
	}
	return nil
}

func (p *Permissions) RevokeStaff(ctx context.Context, uuid int64) error {
	query := p.db.Rebind(`DELETE FROM staff WHERE uuid = ?`)
	if _, err := p.db.ExecContext(ctx, query, uuid); err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	return nil
}

func (p *Permissions) staffRole(ctx context.Context, uuid int64) (permission.StaffRole, error) {
	var role string
	query := p.db.Rebind(`SELECT role FROM staff WHERE uuid = ?`)
	err := p.db.GetContext(ctx, &role, query, uuid)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("select staff: %w", err)
	}
	return permission.StaffRole(role), nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
