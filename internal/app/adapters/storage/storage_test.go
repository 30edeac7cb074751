package storage

import (
	"buttonhandler/internal/app/domain/mark"
	"buttonhandler/internal/app/domain/permission"
	"buttonhandler/internal/app/domain/setting"
	"buttonhandler/internal/app/ports"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const peer = int64(2000000001)

func openTest(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "test.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func markedPeer(t testing.TB, db *sqlx.DB) {
	t.Helper()

	ok, err := NewMarks(db).Set(context.Background(), peer, "Тестовая беседа", mark.Chat)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn", 0)
	assert.Error(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), DriverSQLite, path, 0)
		require.NoError(t, err, "повторное создание схемы не должно падать")
		require.NoError(t, db.Close())
	}
}

func TestMarks_SetTwice(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	marks := NewMarks(db)

	ok, err := marks.Set(ctx, peer, "Беседа", mark.Chat)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = marks.Set(ctx, peer, "Другое имя", mark.Log)
	require.NoError(t, err)
	assert.False(t, ok, "повторная метка должна быть отклонена")

	got, found, err := marks.Get(ctx, peer)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, mark.Chat, got, "метка не должна измениться")

	var settings int
	require.NoError(t, db.Get(&settings, `SELECT COUNT(*) FROM settings WHERE bpid = ?`, peer))
	assert.Equal(t, len(setting.Catalog()), settings, "настройки заполняются один раз")
}

func TestMarks_Seeding(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	markedPeer(t, db)

	s := NewSettings(db)
	for _, d := range setting.Catalog() {
		delay, err := s.Delay(ctx, peer, d.Name)
		require.NoError(t, err, d.Name)
		assert.Equal(t, d.DefaultDelay, delay, d.Name)

		points, err := s.Points(ctx, peer, d.Name)
		require.NoError(t, err, d.Name)
		assert.Equal(t, 1, points, d.Name)
	}

	statuses, err := s.Statuses(ctx, peer, setting.Filter)
	require.NoError(t, err)
	assert.Len(t, statuses, 14)
	for name, st := range statuses {
		assert.Equal(t, setting.Inactive, st, name)
	}
}

func TestMarks_UpdateAndDrop(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	marks := NewMarks(db)

	ok, err := marks.UpdateName(ctx, peer, "Новое имя")
	require.NoError(t, err)
	assert.False(t, ok, "беседа без метки не обновляется")

	_, found, err := marks.Drop(ctx, peer)
	require.NoError(t, err)
	assert.False(t, found)

	markedPeer(t, db)

	ok, err = marks.UpdateName(ctx, peer, "Новое имя")
	require.NoError(t, err)
	assert.True(t, ok)

	var name string
	require.NoError(t, db.Get(&name, `SELECT name FROM peers WHERE bpid = ?`, peer))
	assert.Equal(t, "Новое имя", name)

	dropped, found, err := marks.Drop(ctx, peer)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, mark.Chat, dropped)

	var settings int
	require.NoError(t, db.Get(&settings, `SELECT COUNT(*) FROM settings WHERE bpid = ?`, peer))
	assert.Zero(t, settings, "настройки удаляются вместе с меткой")

	_, found, err = marks.Get(ctx, peer)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSettings_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	markedPeer(t, db)
	s := NewSettings(db)

	st, err := s.ToggleStatus(ctx, peer, setting.System, "curse_words")
	require.NoError(t, err)
	assert.Equal(t, setting.Active, st)

	st, err = s.ToggleStatus(ctx, peer, setting.System, "curse_words")
	require.NoError(t, err)
	assert.Equal(t, setting.Inactive, st, "двойное переключение возвращает исходное состояние")
}

func TestSettings_Errors(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	s := NewSettings(db)

	_, err := s.ToggleStatus(ctx, peer, setting.System, "curse_words")
	assert.ErrorIs(t, err, ErrSettingNotFound, "беседа без метки")

	_, err = s.ToggleStatus(ctx, peer, setting.System, "photo")
	assert.ErrorIs(t, err, ErrUnknownSetting, "фильтр в меню систем")

	_, err = s.AdjustDelay(ctx, peer, "nope", 1)
	assert.ErrorIs(t, err, ErrUnknownSetting)

	_, err = s.Delay(ctx, peer, "slow_mode")
	assert.ErrorIs(t, err, ErrSettingNotFound)
}

func TestSettings_AdjustClamps(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	markedPeer(t, db)
	s := NewSettings(db)

	delay, err := s.AdjustDelay(ctx, peer, "slow_mode", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, delay)

	delay, err = s.AdjustDelay(ctx, peer, "slow_mode", 15)
	require.NoError(t, err)
	assert.Equal(t, 15, delay)

	points, err := s.AdjustPoints(ctx, peer, "photo", 30)
	require.NoError(t, err)
	assert.Equal(t, setting.MaxPoints, points)

	points, err = s.AdjustPoints(ctx, peer, "photo", -3)
	require.NoError(t, err)
	assert.Equal(t, 7, points)
}

func TestSettings_AdjustMatchesClamp(t *testing.T) {
	db := openTest(t)
	markedPeer(t, db)
	s := NewSettings(db)

	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()

		before, err := s.Points(ctx, peer, "link")
		require.NoError(rt, err)

		delta := rapid.IntRange(-15, 15).Draw(rt, "delta")
		after, err := s.AdjustPoints(ctx, peer, "link", delta)
		require.NoError(rt, err)
		assert.Equal(rt, setting.ClampPoints(before+delta), after)

		dBefore, err := s.Delay(ctx, peer, "account_age")
		require.NoError(rt, err)

		dAfter, err := s.AdjustDelay(ctx, peer, "account_age", delta)
		require.NoError(rt, err)
		assert.Equal(rt, setting.ClampDelay(dBefore+delta), dAfter)
	})
}

func TestPermissions(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	p := NewPermissions(db)

	role, err := p.Get(ctx, peer, 42, false)
	require.NoError(t, err)
	assert.Equal(t, permission.User, role, "нет записи - пользователь")

	changed, err := p.Set(ctx, peer, 42, permission.Moderator)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = p.Set(ctx, peer, 42, permission.Moderator)
	require.NoError(t, err)
	assert.False(t, changed, "та же роль не перезаписывается")

	changed, err = p.Set(ctx, peer, 42, permission.Administrator)
	require.NoError(t, err)
	assert.True(t, changed)

	role, err = p.Get(ctx, peer, 42, false)
	require.NoError(t, err)
	assert.Equal(t, permission.Administrator, role)

	_, err = p.Set(ctx, peer, 42, permission.Staff)
	assert.Error(t, err, "персонал не назначается в беседе")

	changed, err = p.Set(ctx, peer, 42, permission.User)
	require.NoError(t, err)
	assert.True(t, changed, "роль User удаляет запись")

	changed, err = p.Drop(ctx, peer, 42)
	require.NoError(t, err)
	assert.False(t, changed, "записи уже нет")
}

func TestPermissions_StaffOverride(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	p := NewPermissions(db)

	_, err := p.Set(ctx, peer, 7, permission.Moderator)
	require.NoError(t, err)
	require.NoError(t, p.GrantStaff(ctx, 7, permission.StaffTech))

	role, err := p.Get(ctx, peer, 7, false)
	require.NoError(t, err)
	assert.Equal(t, permission.Staff, role)

	role, err = p.Get(ctx, peer, 7, true)
	require.NoError(t, err)
	assert.Equal(t, permission.Moderator, role, "режим ignoreStaff читает роль в беседе")

	require.NoError(t, p.GrantStaff(ctx, 8, permission.StaffRole("SUPPORT")))
	role, err = p.Get(ctx, peer, 8, false)
	require.NoError(t, err)
	assert.Equal(t, permission.User, role, "только TECH перекрывает роль")

	require.NoError(t, p.RevokeStaff(ctx, 7))
	role, err = p.Get(ctx, peer, 7, false)
	require.NoError(t, err)
	assert.Equal(t, permission.Moderator, role)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	s := NewSessions(db)

	now := time.Unix(1_700_000_000, 0)
	key := ports.MenuKey{PeerID: peer, MessageID: 15}

	_, ok, err := s.Owner(ctx, key, now)
	require.NoError(t, err)
	assert.False(t, ok)

	acquired, err := s.Acquire(ctx, key, 42, now, now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = s.Acquire(ctx, key, 42, now, now.Add(20*time.Minute))
	require.NoError(t, err)
	assert.True(t, acquired, "владелец продлевает сессию")

	acquired, err = s.Acquire(ctx, key, 43, now, now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.False(t, acquired, "чужая живая сессия")

	owner, ok, err := s.Owner(ctx, key, now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), owner)

	later := now.Add(30 * time.Minute)
	_, ok, err = s.Owner(ctx, key, later)
	require.NoError(t, err)
	assert.False(t, ok, "истёкшая сессия не имеет владельца")

	acquired, err = s.Acquire(ctx, key, 43, later, later.Add(10*time.Minute))
	require.NoError(t, err)
	assert.True(t, acquired, "истёкшую сессию можно занять")

	require.NoError(t, s.Release(ctx, key))
	_, ok, err = s.Owner(ctx, key, later)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessions_Sweep(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	s := NewSessions(db)

	now := time.Unix(1_700_000_000, 0)
	for i := int64(1); i <= 3; i++ {
		_, err := s.Acquire(ctx, ports.MenuKey{PeerID: peer, MessageID: i}, 42, now, now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	n, err := s.Sweep(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, ok, err := s.Owner(ctx, ports.MenuKey{PeerID: peer, MessageID: 3}, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessions_AcquireUsesCallerClock(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	s := NewSessions(db)

	// момент в прошлом: по часам процесса сессия давно истекла
	now := time.Unix(1_700_000_000, 0)
	key := ports.MenuKey{PeerID: peer, MessageID: 16}

	acquired, err := s.Acquire(ctx, key, 42, now, now.Add(10*time.Minute))
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = s.Acquire(ctx, key, 43, now.Add(5*time.Minute), now.Add(15*time.Minute))
	require.NoError(t, err)
	assert.False(t, acquired, "по часам вызывающего сессия ещё жива")

	acquired, err = s.Acquire(ctx, key, 43, now.Add(10*time.Minute), now.Add(20*time.Minute))
	require.NoError(t, err)
	assert.True(t, acquired, "сессия истекает ровно в expires_at")
}
