package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jesses-code-adventures/quote/internal/database"
	"github.com/jesses-code-adventures/quote/internal/jobs"
	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/utils"
	"github.com/jesses-code-adventures/quote/internal/worktime"
)

type CreateJobParams struct {
	Quote         *models.Quote
	ClientName    string
	ScheduledDate time.Time
	// UseBreakdown carries the quote's subtotal, GST and total into the job
	// instead of summing the item prices.
	UseBreakdown bool
}

// CreateJob prices the quote, converts its lines to job items and stores a
// new scheduled job.
func (s *QuoteService) CreateJob(ctx context.Context, params CreateJobParams) (*models.Job, error) {
	q := params.Quote
	result, err := s.CalculateQuote(q)
	if err != nil {
		return nil, err
	}

	clientName := params.ClientName
	if clientName == "" {
		clientName = q.ClientName
	}

	number, err := s.db.NextJobNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate job number: %w", err)
	}

	jobParams := jobs.NewJobParams{
		JobNumber:     number,
		QuoteID:       q.ID,
		ClientName:    clientName,
		SiteAddress:   q.SiteAddress,
		Notes:         q.Notes,
		ScheduledDate: params.ScheduledDate,
		GSTRate:       q.State.EffectiveGSTRate(),
		Items:         jobs.ItemsFromQuote(q.State, result, s.cat),
	}
	if params.UseBreakdown {
		b := result.Breakdown()
		jobParams.Breakdown = &b
	}

	job, err := jobs.NewJob(jobParams, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	if err := s.db.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob finds a job by number ("JOB-7" or "7") or by id.
func (s *QuoteService) GetJob(ctx context.Context, ref string) (*models.Job, error) {
	number := ref
	if !strings.HasPrefix(strings.ToUpper(ref), "JOB-") {
		number = "JOB-" + ref
	}
	job, err := s.db.GetJobByNumber(ctx, strings.ToUpper(number))
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	job, err = s.db.GetJob(ctx, ref)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("job '%s' does not exist", ref)
		}
		return nil, err
	}
	return job, nil
}

func (s *QuoteService) ListJobs(ctx context.Context, status models.JobStatus) ([]*models.Job, error) {
	list, err := s.db.ListJobs(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return list, nil
}

// ListJobsForPeriod lists jobs scheduled in the period containing date,
// optionally narrowed to one status.
func (s *QuoteService) ListJobsForPeriod(ctx context.Context, period, date string, status models.JobStatus) ([]*models.Job, error) {
	target, err := ParseDate(date, s.now())
	if err != nil {
		return nil, err
	}
	from, to := CalculatePeriodRange(period, target)
	list, err := s.db.ListJobsScheduledBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	if status == "" {
		return list, nil
	}
	filtered := list[:0]
	for _, job := range list {
		if job.Status == status {
			filtered = append(filtered, job)
		}
	}
	return filtered, nil
}

// updateJob loads a job, applies change at the given time and saves it.
func (s *QuoteService) updateJob(ctx context.Context, ref, at string, change func(*models.Job, time.Time) error) (*models.Job, error) {
	when, err := ParseTime(at, s.now())
	if err != nil {
		return nil, err
	}
	job, err := s.GetJob(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := change(job, when); err != nil {
		return nil, err
	}
	if err := s.db.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *QuoteService) StartJob(ctx context.Context, ref, at string) (*models.Job, error) {
	return s.updateJob(ctx, ref, at, jobs.Start)
}

func (s *QuoteService) PauseJob(ctx context.Context, ref, at, reason string) (*models.Job, error) {
	return s.updateJob(ctx, ref, at, func(job *models.Job, when time.Time) error {
		return jobs.Pause(job, reason, when)
	})
}

func (s *QuoteService) ResumeJob(ctx context.Context, ref, at string) (*models.Job, error) {
	return s.updateJob(ctx, ref, at, jobs.Resume)
}

func (s *QuoteService) CompleteJob(ctx context.Context, ref, at string, completion models.JobCompletion) (*models.Job, error) {
	return s.updateJob(ctx, ref, at, func(job *models.Job, when time.Time) error {
		return jobs.Complete(job, completion, when)
	})
}

func (s *QuoteService) CancelJob(ctx context.Context, ref, at, reason string) (*models.Job, error) {
	return s.updateJob(ctx, ref, at, func(job *models.Job, when time.Time) error {
		return jobs.Cancel(job, reason, when)
	})
}

func (s *QuoteService) InvoiceJob(ctx context.Context, ref, at, invoiceID string) (*models.Job, error) {
	return s.updateJob(ctx, ref, at, func(job *models.Job, when time.Time) error {
		return jobs.MarkInvoiced(job, invoiceID, when)
	})
}

func (s *QuoteService) SetItemStatus(ctx context.Context, ref, itemID string, status models.ItemStatus, note string) (*models.Job, error) {
	return s.updateJob(ctx, ref, "", func(job *models.Job, at time.Time) error {
		return jobs.SetItemStatus(job, itemID, status, note, at)
	})
}

func (s *QuoteService) AddItemNote(ctx context.Context, ref, itemID, note string) (*models.Job, error) {
	return s.updateJob(ctx, ref, "", func(job *models.Job, at time.Time) error {
		return jobs.AddItemNote(job, itemID, note, at)
	})
}

func (s *QuoteService) AddNote(ctx context.Context, ref, text, itemID string) (*models.JobNote, error) {
	var note *models.JobNote
	_, err := s.updateJob(ctx, ref, "", func(job *models.Job, at time.Time) error {
		n, err := jobs.AddNote(job, text, itemID, at)
		if err != nil {
			return err
		}
		note = utils.ToPtr(*n)
		return nil
	})
	return note, err
}

func (s *QuoteService) RemoveNote(ctx context.Context, ref, noteID string) error {
	_, err := s.updateJob(ctx, ref, "", func(job *models.Job, at time.Time) error {
		return jobs.RemoveNote(job, noteID, at)
	})
	return err
}

func (s *QuoteService) AddIssue(ctx context.Context, ref, description string, severity models.IssueSeverity) (*models.JobIssue, error) {
	var issue *models.JobIssue
	_, err := s.updateJob(ctx, ref, "", func(job *models.Job, at time.Time) error {
		i, err := jobs.AddIssue(job, description, severity, at)
		if err != nil {
			return err
		}
		issue = utils.ToPtr(*i)
		return nil
	})
	return issue, err
}

func (s *QuoteService) ResolveIssue(ctx context.Context, ref, issueID, resolution string) error {
	_, err := s.updateJob(ctx, ref, "", func(job *models.Job, at time.Time) error {
		return jobs.ResolveIssue(job, issueID, resolution, at)
	})
	return err
}

func (s *QuoteService) AdjustItemPrice(ctx context.Context, ref, itemID string, price float64, reason string) (*models.Job, error) {
	return s.updateJob(ctx, ref, "", func(job *models.Job, at time.Time) error {
		return jobs.AdjustItemPrice(job, itemID, price, reason, at)
	})
}

func (s *QuoteService) DeleteJob(ctx context.Context, ref string) error {
	job, err := s.GetJob(ctx, ref)
	if err != nil {
		return err
	}
	return s.db.DeleteJob(ctx, job.ID)
}

func (s *QuoteService) JobStats(ctx context.Context) (jobs.Metrics, error) {
	list, err := s.ListJobs(ctx, "")
	if err != nil {
		return jobs.Metrics{}, err
	}
	return jobs.CalculateMetrics(list, s.now()), nil
}

func (s *QuoteService) PrintJobList(w io.Writer, list []*models.Job) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No jobs found.")
		return
	}
	fmt.Fprintf(w, "%-8s %-10s %-12s %-24s %12s %5s\n", "Job", "Date", "Status", "Client", "Total", "Done")
	for _, job := range list {
		fmt.Fprintf(w, "%-8s %-10s %-12s %-24s %12s %4d%%\n",
			job.JobNumber,
			job.Schedule.ScheduledDate.Format(dateLayout),
			job.Status,
			truncate(job.ClientName, 24),
			money.FormatCurrency(job.Pricing.ActualTotal),
			jobs.CalculateJobProgress(job.Items))
	}
}

func (s *QuoteService) PrintJob(w io.Writer, job *models.Job) {
	fmt.Fprintf(w, "%s  %s  (%s)\n", job.JobNumber, job.ClientName, job.Status)
	if job.SiteAddress != "" {
		fmt.Fprintf(w, "Site: %s\n", job.SiteAddress)
	}
	fmt.Fprintf(w, "Scheduled: %s\n", job.Schedule.ScheduledDate.Format(dateLayout))
	if start := job.Schedule.ActualStartTime; start != nil {
		fmt.Fprintf(w, "Started: %s\n", start.Local().Format("2006-01-02 15:04"))
	}
	if end := job.Schedule.ActualEndTime; end != nil {
		fmt.Fprintf(w, "Finished: %s\n", end.Local().Format("2006-01-02 15:04"))
	}
	if job.Schedule.ActualStartTime != nil {
		fmt.Fprintf(w, "Duration: %s\n", worktime.FormatDuration(jobs.GetJobDuration(job, s.now())))
	}
	fmt.Fprintf(w, "Progress: %d%%\n", jobs.CalculateJobProgress(job.Items))
	if job.CancelReason != "" {
		fmt.Fprintf(w, "Cancelled: %s\n", job.CancelReason)
	}
	if job.InvoiceID != "" {
		fmt.Fprintf(w, "Invoice: %s\n", job.InvoiceID)
	}
	if c := job.Completion; c != nil {
		if c.ClientName != "" {
			fmt.Fprintf(w, "Signed off by: %s\n", c.ClientName)
		}
		if c.Rating > 0 {
			fmt.Fprintf(w, "Rating: %d/5\n", c.Rating)
		}
		if c.Feedback != "" {
			fmt.Fprintf(w, "Feedback: %s\n", c.Feedback)
		}
	}
	fmt.Fprintln(w)

	for _, item := range job.Items {
		fmt.Fprintf(w, "  [%-9s] %-36s %-40s %12s\n",
			item.Status, item.ID, truncate(item.Description, 40), money.FormatCurrency(item.ActualPrice))
		if item.AdjustReason != "" {
			fmt.Fprintf(w, "              adjusted from %s: %s\n", money.FormatCurrency(item.EstimatedPrice), item.AdjustReason)
		}
		for _, line := range strings.Split(item.Notes, "\n") {
			if line != "" {
				fmt.Fprintf(w, "              note: %s\n", line)
			}
		}
	}

	p := job.Pricing
	fmt.Fprintf(w, "\n%-20s %12s %12s\n", "", "Estimated", "Actual")
	fmt.Fprintf(w, "%-20s %12s %12s\n", "Subtotal", money.FormatCurrency(p.EstimatedSubtotal), money.FormatCurrency(p.ActualSubtotal))
	fmt.Fprintf(w, "%-20s %12s %12s\n", fmt.Sprintf("GST (%s)", money.FormatPercent(job.GSTRate)),
		money.FormatCurrency(p.EstimatedGST), money.FormatCurrency(p.ActualGST))
	fmt.Fprintf(w, "%-20s %12s %12s\n", "Total", money.FormatCurrency(p.EstimatedTotal), money.FormatCurrency(p.ActualTotal))
	if p.AdjustmentReason != "" {
		fmt.Fprintf(w, "Adjustment: %s\n", p.AdjustmentReason)
	}

	if len(job.Notes) > 0 {
		fmt.Fprintln(w, "\nNotes:")
		for _, n := range job.Notes {
			item := ""
			if n.ItemID != "" {
				item = " [" + n.ItemID + "]"
			}
			fmt.Fprintf(w, "  %s  %s%s  %s\n", n.ID, n.CreatedAt.Local().Format("2006-01-02 15:04"), item, n.Text)
		}
	}
	if len(job.Issues) > 0 {
		fmt.Fprintf(w, "\nIssues (%d open):\n", jobs.OpenIssues(job))
		for _, issue := range job.Issues {
			state := "open"
			if issue.Resolved {
				state = "resolved"
			}
			fmt.Fprintf(w, "  %s  [%s, %s] %s\n", issue.ID, issue.Severity, state, issue.Description)
			if issue.Resolution != "" {
				fmt.Fprintf(w, "      resolution: %s\n", issue.Resolution)
			}
		}
	}
}

func (s *QuoteService) PrintStats(w io.Writer, m jobs.Metrics) {
	fmt.Fprintf(w, "Jobs: %d (scheduled %d, in progress %d, paused %d, cancelled %d)\n",
		m.TotalJobs, m.ScheduledJobs, m.InProgressJobs, m.PausedJobs, m.CancelledJobs)
	fmt.Fprintf(w, "Completed in the last 30 days: %d\n", m.CompletedJobs)
	fmt.Fprintf(w, "Revenue: %s\n", money.FormatCurrency(m.TotalRevenue))
	fmt.Fprintf(w, "Average job value: %s\n", money.FormatCurrency(m.AverageJobValue))
	fmt.Fprintf(w, "Average completion time: %s\n", worktime.FormatDuration(float64(m.AverageCompletionTime)))
	if m.AverageRating > 0 {
		fmt.Fprintf(w, "Average rating: %s/5\n", humanize.FtoaWithDigits(m.AverageRating, 1))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
