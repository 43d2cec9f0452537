package database

import (
	"context"
	"errors"
	"time"

	"github.com/jesses-code-adventures/quote/internal/models"
)

var ErrNotFound = errors.New("not found")

type DB interface {
	Close() error
	Migrate(ctx context.Context) error

	SaveJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	GetJobByNumber(ctx context.Context, jobNumber string) (*models.Job, error)
	// ListJobs returns jobs newest first. An empty status lists every job.
	ListJobs(ctx context.Context, status models.JobStatus) ([]*models.Job, error)
	ListJobsScheduledBetween(ctx context.Context, from, to time.Time) ([]*models.Job, error)
	DeleteJob(ctx context.Context, id string) error
	NextJobNumber(ctx context.Context) (string, error)
}
