package jobs

import (
	"math"
	"time"

	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
)

// MetricsWindow is how far back completed jobs count towards revenue and
// average figures.
const MetricsWindow = 30 * 24 * time.Hour

type Metrics struct {
	TotalJobs             int     `json:"total_jobs"`
	ScheduledJobs         int     `json:"scheduled_jobs"`
	InProgressJobs        int     `json:"in_progress_jobs"`
	PausedJobs            int     `json:"paused_jobs"`
	CompletedJobs         int     `json:"completed_jobs"`
	CancelledJobs         int     `json:"cancelled_jobs"`
	TotalRevenue          float64 `json:"total_revenue"`
	AverageJobValue       float64 `json:"average_job_value"`
	AverageCompletionTime int     `json:"average_completion_minutes"`
	// AverageRating is over rated jobs only; zero when none were rated.
	AverageRating         float64 `json:"average_rating"`
}

// CalculateMetrics counts jobs by status and summarises the completed and
// invoiced jobs created within MetricsWindow of now.
func CalculateMetrics(jobs []*models.Job, now time.Time) Metrics {
	m := Metrics{TotalJobs: len(jobs)}
	cutoff := now.Add(-MetricsWindow)

	var revenueCents int64
	var totalDuration float64
	durations := 0
	totalRating, ratings := 0, 0
	for _, job := range jobs {
		switch job.Status {
		case models.JobScheduled:
			m.ScheduledJobs++
		case models.JobInProgress:
			m.InProgressJobs++
		case models.JobPaused:
			m.PausedJobs++
		case models.JobCancelled:
			m.CancelledJobs++
		}

		if job.Status != models.JobCompleted && job.Status != models.JobInvoiced {
			continue
		}
		if job.CreatedAt.Before(cutoff) {
			continue
		}
		m.CompletedJobs++
		if cents, err := money.ToCents(job.Pricing.ActualTotal); err == nil {
			revenueCents += cents
		}
		if d := GetJobDuration(job, now); d > 0 {
			totalDuration += d
			durations++
		}
		if job.Completion != nil && job.Completion.Rating > 0 {
			totalRating += job.Completion.Rating
			ratings++
		}
	}

	m.TotalRevenue = money.FromCents(revenueCents)
	if m.CompletedJobs > 0 {
		avg, _ := money.RoundMoney(m.TotalRevenue / float64(m.CompletedJobs))
		m.AverageJobValue = avg
	}
	if durations > 0 {
		m.AverageCompletionTime = int(math.Round(totalDuration / float64(durations)))
	}
	if ratings > 0 {
		m.AverageRating = float64(totalRating) / float64(ratings)
	}
	return m
}
