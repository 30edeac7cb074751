package ports

import (
	"buttonhandler/internal/app/domain/mark"
	"buttonhandler/internal/app/domain/permission"
	"buttonhandler/internal/app/domain/setting"
	"context"
	"time"
)

type SettingsPort interface {
	Statuses(ctx context.Context, bpid int64, dest setting.Destination) (map[string]setting.Status, error)
	ToggleStatus(ctx context.Context, bpid int64, dest setting.Destination, name string) (setting.Status, error)
	Delay(ctx context.Context, bpid int64, name string) (int, error)
	AdjustDelay(ctx context.Context, bpid int64, name string, delta int) (int, error)
	Points(ctx context.Context, bpid int64, name string) (int, error)
	AdjustPoints(ctx context.Context, bpid int64, name string, delta int) (int, error)
}

type PermissionsPort interface {
	// Get возвращает роль пользователя, Staff перекрывает роль в беседе если ignoreStaff не задан.
	Get(ctx context.Context, bpid, uuid int64, ignoreStaff bool) (permission.Role, error)
	// Set назначает роль, User удаляет запись. false - роль уже была такой.
	Set(ctx context.Context, bpid, uuid int64, role permission.Role) (bool, error)
	// Drop сбрасывает роль до User. false - записи не было.
	Drop(ctx context.Context, bpid, uuid int64) (bool, error)
}

type MarksPort interface {
	Get(ctx context.Context, bpid int64) (mark.Mark, bool, error)
	// Set помечает беседу и заполняет её настройки по умолчанию. false - метка уже была.
	Set(ctx context.Context, bpid int64, name string, m mark.Mark) (bool, error)
	UpdateName(ctx context.Context, bpid int64, name string) (bool, error)
	Drop(ctx context.Context, bpid int64) (mark.Mark, bool, error)
}

type MenuKey struct {
	PeerID    int64
	MessageID int64
}

type SessionsPort interface {
	Owner(ctx context.Context, key MenuKey, now time.Time) (int64, bool, error)
	// Acquire создаёт или продлевает сессию, истёкшей к now можно завладеть.
	// false - сессией владеет другой пользователь.
	Acquire(ctx context.Context, key MenuKey, owner int64, now, expiresAt time.Time) (bool, error)
	Release(ctx context.Context, key MenuKey) error
	Sweep(ctx context.Context, now time.Time) (int64, error)
}
