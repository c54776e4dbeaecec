package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"apptrack-engine/internal/domain"
)

var ErrNotFound = errors.New("application not found")

type ListOpts struct {
	Status string // filter when non-empty
	Limit  int
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS applications (
  id TEXT PRIMARY KEY,
  company TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  job_id TEXT NOT NULL DEFAULT '',
  platform TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'Applied',
  notes TEXT NOT NULL DEFAULT '',
  source_email_id TEXT NOT NULL DEFAULT '',
  source_url TEXT NOT NULL DEFAULT '',
  application_date TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS seen_messages (
  message_id TEXT PRIMARY KEY,
  processed_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_applications_created_at
ON applications(created_at DESC);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_source_email
ON applications(source_email_id)
WHERE source_email_id != '';
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertApplication assigns the id and timestamps and persists the record.
// A record with the same non-empty source_email_id is silently skipped
// (ingest runs are re-entrant); added reports whether a row was written.
func InsertApplication(ctx context.Context, db *sql.DB, app *domain.Application) (added bool, err error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.Status == "" {
		app.Status = domain.StatusApplied
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	var appDate any
	if app.ApplicationDate != nil {
		appDate = app.ApplicationDate.UTC().Format(time.RFC3339)
	}

	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO applications
  (id, company, title, job_id, platform, status, notes, source_email_id, source_url, application_date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		app.ID, app.Company, app.Title, app.JobID, app.Platform, app.Status, app.Notes,
		app.SourceEmailID, app.SourceURL, appDate,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert application: %w", err)
	}

	var changes int
	if e := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

func ListApplications(ctx context.Context, db *sql.DB, opts ListOpts) ([]domain.Application, error) {
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 500
	}

	where := ""
	args := []any{}
	if s := strings.TrimSpace(opts.Status); s != "" {
		where = "WHERE status = ?"
		args = append(args, s)
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, company, title, job_id, platform, status, notes, source_email_id, source_url, application_date, created_at, updated_at
FROM applications
%s
ORDER BY created_at DESC
LIMIT ?;`, where)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func GetApplication(ctx context.Context, db *sql.DB, id string) (domain.Application, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, company, title, job_id, platform, status, notes, source_email_id, source_url, application_date, created_at, updated_at
FROM applications
WHERE id = ?;`, id)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Application{}, ErrNotFound
	}
	return app, err
}

func UpdateStatus(ctx context.Context, db *sql.DB, id, status string) error {
	res, err := db.ExecContext(ctx, `
UPDATE applications
SET status = ?, updated_at = ?
WHERE id = ?;`,
		status, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func DeleteApplication(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?;`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func CleanupOldApplications(db *sql.DB, retentionMonths int) (deleted int64, err error) {
	if retentionMonths <= 0 {
		return 0, nil
	}
	res, err := db.Exec(fmt.Sprintf(`
DELETE FROM applications
WHERE created_at < datetime('now', '-%d months');`, retentionMonths))
	if err != nil {
		return 0, fmt.Errorf("cleanup old applications: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(r rowScanner) (domain.Application, error) {
	var app domain.Application
	var appDate sql.NullString
	var createdStr, updatedStr string

	if err := r.Scan(
		&app.ID, &app.Company, &app.Title, &app.JobID, &app.Platform,
		&app.Status, &app.Notes, &app.SourceEmailID, &app.SourceURL,
		&appDate, &createdStr, &updatedStr,
	); err != nil {
		return domain.Application{}, err
	}

	if appDate.Valid && appDate.String != "" {
		if t, err := time.Parse(time.RFC3339, appDate.String); err == nil {
			app.ApplicationDate = &t
		}
	}
	app.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	app.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return app, nil
}
