package database

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/jesses-code-adventures/quote/internal/config"
	"github.com/jesses-code-adventures/quote/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

const timeLayout = "2006-01-02 15:04:05"

type SQLiteDB struct {
	conn *sql.DB
}

// NewDB opens the job store with the configured driver, sqlite3 for a local
// file or libsql for a remote database.
func NewDB(cfg *config.Config) (*SQLiteDB, error) {
	conn, err := sql.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLiteDB{conn: conn}, nil
}

func (s *SQLiteDB) Close() error {
	return s.conn.Close()
}

// Migrate brings the schema up to the latest embedded migration. The
// migration driver shares the store's connection, so it is never closed here.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(s.conn, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SaveJob inserts the job or replaces the stored copy with the same id.
func (s *SQLiteDB) SaveJob(ctx context.Context, job *models.Job) error {
	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO jobs (id, job_number, quote_id, client_name, status, scheduled_date,
			estimated_total, actual_total, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			job_number = excluded.job_number,
			quote_id = excluded.quote_id,
			client_name = excluded.client_name,
			status = excluded.status,
			scheduled_date = excluded.scheduled_date,
			estimated_total = excluded.estimated_total,
			actual_total = excluded.actual_total,
			document = excluded.document,
			updated_at = excluded.updated_at`,
		job.ID,
		job.JobNumber,
		nullString(job.QuoteID),
		job.ClientName,
		string(job.Status),
		formatTime(job.Schedule.ScheduledDate),
		job.Pricing.EstimatedTotal,
		job.Pricing.ActualTotal,
		string(doc),
		formatTime(job.CreatedAt),
		formatTime(job.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.JobNumber, err)
	}
	return nil
}

func (s *SQLiteDB) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.getJob(ctx, `SELECT document FROM jobs WHERE id = ?`, id)
}

func (s *SQLiteDB) GetJobByNumber(ctx context.Context, jobNumber string) (*models.Job, error) {
	return s.getJob(ctx, `SELECT document FROM jobs WHERE job_number = ?`, jobNumber)
}

func (s *SQLiteDB) getJob(ctx context.Context, query, arg string) (*models.Job, error) {
	var doc string
	if err := s.conn.QueryRowContext(ctx, query, arg).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job %s: %w", arg, err)
	}
	return decodeJob(doc)
}

func (s *SQLiteDB) ListJobs(ctx context.Context, status models.JobStatus) ([]*models.Job, error) {
	if status == "" {
		return s.listJobs(ctx, `SELECT document FROM jobs ORDER BY created_at DESC, job_number DESC`)
	}
	return s.listJobs(ctx,
		`SELECT document FROM jobs WHERE status = ? ORDER BY created_at DESC, job_number DESC`, string(status))
}

// ListJobsScheduledBetween lists jobs scheduled in [from, to), earliest first.
func (s *SQLiteDB) ListJobsScheduledBetween(ctx context.Context, from, to time.Time) ([]*models.Job, error) {
	return s.listJobs(ctx,
		`SELECT document FROM jobs WHERE scheduled_date >= ? AND scheduled_date < ? ORDER BY scheduled_date ASC`,
		formatTime(from), formatTime(to))
}

func (s *SQLiteDB) listJobs(ctx context.Context, query string, args ...any) ([]*models.Job, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var result []*models.Job
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		job, err := decodeJob(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return result, nil
}

func (s *SQLiteDB) DeleteJob(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// NextJobNumber increments the job counter and returns "JOB-<n>".
func (s *SQLiteDB) NextJobNumber(ctx context.Context) (string, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE job_counter SET value = value + 1 WHERE id = 1`); err != nil {
		return "", fmt.Errorf("failed to increment job counter: %w", err)
	}
	var n int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM job_counter WHERE id = 1`).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to read job counter: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit job counter: %w", err)
	}
	return fmt.Sprintf("JOB-%d", n), nil
}

func decodeJob(doc string) (*models.Job, error) {
	var job models.Job
	if err := json.Unmarshal([]byte(doc), &job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
