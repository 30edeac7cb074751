package storage

import (
	"buttonhandler/internal/app/domain/setting"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Settings struct {
	db *sqlx.DB
}

func NewSettings(db *sqlx.DB) *Settings {
	return &Settings{db: db}
}

type settingRow struct {
	BPID        int64  `db:"bpid"`
	Destination string `db:"destination"`
	Name        string `db:"name"`
	Status      int    `db:"status"`
	Delay       int    `db:"delay"`
	Points      int    `db:"points"`
}

func rowFromDefinition(bpid int64, d setting.Definition) settingRow {
	return settingRow{
		BPID:        bpid,
		Destination: string(d.Destination),
		Name:        d.Name,
		Status:      statusToInt(d.DefaultStatus),
		Delay:       d.DefaultDelay,
		Points:      d.DefaultPoints,
	}
}

func statusToInt(s setting.Status) int {
	if s == setting.Active {
		return 1
	}
	return 0
}

func lookup(dest setting.Destination, name string) (setting.Definition, error) {
	d, ok := setting.Lookup(name)
	if !ok || (dest != "" && d.Destination != dest) {
		return setting.Definition{}, fmt.Errorf("%w: %s/%s", ErrUnknownSetting, dest, name)
	}
	return d, nil
}

func (s *Settings) Statuses(ctx context.Context, bpid int64, dest setting.Destination) (map[string]setting.Status, error) {
	var rows []settingRow
	query := s.db.Rebind(`SELECT name, status FROM settings WHERE bpid = ? AND destination = ?`)
	if err := s.db.SelectContext(ctx, &rows, query, bpid, string(dest)); err != nil {
		return nil, fmt.Errorf("select statuses: %w", err)
	}

	out := make(map[string]setting.Status, len(rows))
	for _, r := range rows {
		out[r.Name] = setting.Status(r.Status == 1)
	}
	return out, nil
}

func (s *Settings) ToggleStatus(ctx context.Context, bpid int64, dest setting.Destination, name string) (setting.Status, error) {
	if _, err := lookup(dest, name); err != nil {
		return setting.Inactive, err
	}

	var status int
	query := s.db.Rebind(`UPDATE settings SET status = 1 - status
		WHERE bpid = ? AND destination = ? AND name = ?
		RETURNING status`)
	if err := s.db.QueryRowxContext(ctx, query, bpid, string(dest), name).Scan(&status); err != nil {
		return setting.Inactive, notFound(err, name)
	}

	return setting.Status(status == 1), nil
}

func (s *Settings) Delay(ctx context.Context, bpid int64, name string) (int, error) {
	return s.column(ctx, "delay", bpid, name)
}

func (s *Settings) Points(ctx context.Context, bpid int64, name string) (int, error) {
	return s.column(ctx, "points", bpid, name)
}

// AdjustDelay сдвигает задержку на delta, не опуская ниже нуля.
func (s *Settings) AdjustDelay(ctx context.Context, bpid int64, name string, delta int) (int, error) {
	if _, err := lookup("", name); err != nil {
		return 0, err
	}

	var delay int
	query := s.db.Rebind(fmt.Sprintf(`UPDATE settings
		SET delay = CASE WHEN delay + ? < %[1]d THEN %[1]d ELSE delay + ? END
		WHERE bpid = ? AND name = ?
		RETURNING delay`, setting.MinDelay))
	err := s.db.QueryRowxContext(ctx, query, delta, delta, bpid, name).Scan(&delay)
	if err != nil {
		return 0, notFound(err, name)
	}

	return delay, nil
}

// AdjustPoints сдвигает количество предупреждений на delta в пределах [MinPoints, MaxPoints].
func (s *Settings) AdjustPoints(ctx context.Context, bpid int64, name string, delta int) (int, error) {
	if _, err := lookup("", name); err != nil {
		return 0, err
	}

	var points int
	query := s.db.Rebind(fmt.Sprintf(`UPDATE settings
		SET points = CASE
			WHEN points + ? < %[1]d THEN %[1]d
			WHEN points + ? > %[2]d THEN %[2]d
			ELSE points + ?
		END
		WHERE bpid = ? AND name = ?
		RETURNING points`, setting.MinPoints, setting.MaxPoints))
	err := s.db.QueryRowxContext(ctx, query, delta, delta, delta, bpid, name).Scan(&points)
	if err != nil {
		return 0, notFound(err, name)
	}

	return points, nil
}

func (s *Settings) column(ctx context.Context, column string, bpid int64, name string) (int, error) {
	if _, err := lookup("", name); err != nil {
		return 0, err
	}

	var v int
	query := s.db.Rebind(fmt.Sprintf(`SELECT %s FROM settings WHERE bpid = ? AND name = ?`, column))
	if err := s.db.GetContext(ctx, &v, query, bpid, name); err != nil {
		return 0, notFound(err, name)
	}
	return v, nil
}

// seed заполняет настройки беседы значениями по умолчанию, существующие строки не трогает.
func seed(ctx context.Context, tx *sqlx.Tx, bpid int64) error {
	query := `INSERT INTO settings (bpid, destination, name, status, delay, points)
		VALUES (:bpid, :destination, :name, :status, :delay, :points)
		ON CONFLICT (bpid, destination, name) DO NOTHING`

	for _, d := range setting.Catalog() {
		if _, err := tx.NamedExecContext(ctx, query, rowFromDefinition(bpid, d)); err != nil {
			return fmt.Errorf("seed %s: %w", d.Name, err)
		}
	}
	return nil
}

func notFound(err error, name string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrSettingNotFound, name)
	}
	return fmt.Errorf("setting %s: %w", name, err)
}
