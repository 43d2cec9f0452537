package jobs

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/utils"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrItemNotFound      = errors.New("job item not found")
	ErrItemFinalised     = errors.New("job item already finalised")
	ErrJobClosed         = errors.New("job is closed")
	ErrNoteNotFound      = errors.New("job note not found")
	ErrIssueNotFound     = errors.New("job issue not found")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

type NewJobParams struct {
	JobNumber     string
	QuoteID       string
	ClientName    string
	SiteAddress   string
	Notes         string
	ScheduledDate time.Time
	GSTRate       float64
	Items         []models.JobItem
	// Breakdown, when set, replaces the calculated pricing.
	Breakdown *models.Breakdown
}

// NewJob creates a scheduled job. Pricing is calculated from the items and
// then, if a breakdown is given, overridden by it.
func NewJob(params NewJobParams, now time.Time) (*models.Job, error) {
	if strings.TrimSpace(params.ClientName) == "" {
		return nil, fmt.Errorf("client name is required")
	}
	rate := params.GSTRate
	if rate <= 0 {
		rate = money.GSTRate
	}

	pricing, err := CalculateJobPricing(params.Items, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to price job: %w", err)
	}
	if params.Breakdown != nil {
		pricing = ApplyBreakdown(pricing, *params.Breakdown)
	}

	items := params.Items
	if items == nil {
		items = []models.JobItem{}
	}
	notes := []models.JobNote{}
	if strings.TrimSpace(params.Notes) != "" {
		notes = append(notes, newNote(params.Notes, "", now))
	}
	return &models.Job{
		ID:          models.NewUUID(),
		JobNumber:   params.JobNumber,
		QuoteID:     params.QuoteID,
		ClientName:  params.ClientName,
		SiteAddress: params.SiteAddress,
		Status:      models.JobScheduled,
		GSTRate:     rate,
		Items:       items,
		Schedule:    models.Schedule{ScheduledDate: params.ScheduledDate},
		Pricing:     pricing,
		Notes:       notes,
		Issues:      []models.JobIssue{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

var transitions = map[models.JobStatus][]models.JobStatus{
	models.JobScheduled:  {models.JobInProgress, models.JobCancelled},
	models.JobInProgress: {models.JobPaused, models.JobCompleted, models.JobCancelled},
	models.JobPaused:     {models.JobInProgress, models.JobCompleted, models.JobCancelled},
	models.JobCompleted:  {models.JobInvoiced, models.JobCancelled},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to models.JobStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func transition(job *models.Job, to models.JobStatus, at time.Time) error {
	if !CanTransition(job.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.Status, to)
	}
	job.Status = to
	job.UpdatedAt = at
	return nil
}

// Start moves a scheduled job in progress and records the start time.
func Start(job *models.Job, at time.Time) error {
	if job.Status != models.JobScheduled {
		return fmt.Errorf("%w: cannot start a %s job", ErrInvalidTransition, job.Status)
	}
	if err := transition(job, models.JobInProgress, at); err != nil {
		return err
	}
	job.Schedule.ActualStartTime = utils.ToPtr(at)
	return nil
}

// Pause stops the clock on a running job. A reason is kept as a note.
func Pause(job *models.Job, reason string, at time.Time) error {
	if job.Status != models.JobInProgress {
		return fmt.Errorf("%w: cannot pause a %s job", ErrInvalidTransition, job.Status)
	}
	if err := transition(job, models.JobPaused, at); err != nil {
		return err
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		job.Notes = append(job.Notes, newNote("Paused: "+reason, "", at))
	}
	return nil
}

func Resume(job *models.Job, at time.Time) error {
	if job.Status != models.JobPaused {
		return fmt.Errorf("%w: cannot resume a %s job", ErrInvalidTransition, job.Status)
	}
	return transition(job, models.JobInProgress, at)
}

// Complete finishes a running or paused job, records its end time,
// duration and client sign-off, and reprices it from the items' actual
// prices.
func Complete(job *models.Job, completion models.JobCompletion, at time.Time) error {
	if job.Status != models.JobInProgress && job.Status != models.JobPaused {
		return fmt.Errorf("%w: cannot complete a %s job", ErrInvalidTransition, job.Status)
	}
	if completion.Rating < 0 || completion.Rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, completion.Rating)
	}
	pricing, err := CalculateJobPricing(job.Items, job.GSTRate)
	if err != nil {
		return fmt.Errorf("failed to price job: %w", err)
	}
	if err := transition(job, models.JobCompleted, at); err != nil {
		return err
	}
	job.Schedule.ActualEndTime = utils.ToPtr(at)
	if job.Schedule.ActualStartTime != nil {
		job.Schedule.ActualDuration = utils.ToPtr(int(math.Round(at.Sub(*job.Schedule.ActualStartTime).Minutes())))
	}
	completion.CompletedAt = at
	job.Completion = &completion
	job.Pricing = pricing
	return nil
}

// Cancel cancels any job that has not been invoiced. A reason is kept on
// the job and as a note.
func Cancel(job *models.Job, reason string, at time.Time) error {
	if job.Status == models.JobCancelled || job.Status == models.JobInvoiced {
		return fmt.Errorf("%w: cannot cancel a %s job", ErrInvalidTransition, job.Status)
	}
	if err := transition(job, models.JobCancelled, at); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	job.CancelReason = reason
	if reason != "" {
		job.Notes = append(job.Notes, newNote("Cancelled: "+reason, "", at))
	}
	return nil
}

// MarkInvoiced closes a completed job against the invoice that billed it.
func MarkInvoiced(job *models.Job, invoiceID string, at time.Time) error {
	if err := transition(job, models.JobInvoiced, at); err != nil {
		return err
	}
	job.InvoiceID = invoiceID
	return nil
}

func findItem(job *models.Job, itemID string) (*models.JobItem, error) {
	for i := range job.Items {
		if job.Items[i].ID == itemID {
			return &job.Items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

func checkOpen(job *models.Job) error {
	if job.Status == models.JobInvoiced || job.Status == models.JobCancelled {
		return fmt.Errorf("%w: job %s is %s", ErrJobClosed, job.JobNumber, job.Status)
	}
	return nil
}

// SetItemStatus finalises a pending item as completed or skipped. A
// non-empty note replaces the item's notes.
func SetItemStatus(job *models.Job, itemID string, status models.ItemStatus, note string, at time.Time) error {
	if err := checkOpen(job); err != nil {
		return err
	}
	if !status.Done() {
		return fmt.Errorf("%w: item status %q", ErrInvalidTransition, status)
	}
	item, err := findItem(job, itemID)
	if err != nil {
		return err
	}
	if item.Status != models.ItemPending {
		return fmt.Errorf("%w: %s is %s", ErrItemFinalised, itemID, item.Status)
	}
	item.Status = status
	if status == models.ItemCompleted {
		item.CompletedAt = utils.ToPtr(at)
	}
	if note = strings.TrimSpace(note); note != "" {
		item.Notes = note
	}
	job.UpdatedAt = at
	return nil
}

// AddItemNote appends a line to an item's notes.
func AddItemNote(job *models.Job, itemID, note string, at time.Time) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return fmt.Errorf("note text is required")
	}
	item, err := findItem(job, itemID)
	if err != nil {
		return err
	}
	if item.Notes == "" {
		item.Notes = note
	} else {
		item.Notes += "\n" + note
	}
	job.UpdatedAt = at
	return nil
}

// AdjustItemPrice sets an item's actual price, rounded to cents, and
// reprices the job.
func AdjustItemPrice(job *models.Job, itemID string, price float64, reason string, at time.Time) error {
	if err := checkOpen(job); err != nil {
		return err
	}
	rounded, err := money.RoundMoney(price)
	if err != nil {
		return err
	}
	if rounded < 0 {
		return fmt.Errorf("price must not be negative: %v", price)
	}
	item, err := findItem(job, itemID)
	if err != nil {
		return err
	}
	item.ActualPrice = rounded
	item.AdjustReason = reason

	pricing, err := CalculateJobPricing(job.Items, job.GSTRate)
	if err != nil {
		return fmt.Errorf("failed to price job: %w", err)
	}
	pricing.AdjustmentReason = reason
	job.Pricing = pricing
	job.UpdatedAt = at
	return nil
}

func newNote(text, itemID string, at time.Time) models.JobNote {
	return models.JobNote{ID: models.NewUUID(), Text: strings.TrimSpace(text), ItemID: itemID, CreatedAt: at}
}

// AddNote records a note on the job. An item id ties the note to that item.
func AddNote(job *models.Job, text, itemID string, at time.Time) (*models.JobNote, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("note text is required")
	}
	if itemID != "" {
		if _, err := findItem(job, itemID); err != nil {
			return nil, err
		}
	}
	job.Notes = append(job.Notes, newNote(text, itemID, at))
	job.UpdatedAt = at
	return &job.Notes[len(job.Notes)-1], nil
}

func RemoveNote(job *models.Job, noteID string, at time.Time) error {
	for i, n := range job.Notes {
		if n.ID == noteID {
			job.Notes = append(job.Notes[:i], job.Notes[i+1:]...)
			job.UpdatedAt = at
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoteNotFound, noteID)
}

// AddIssue records an unresolved issue found on the job.
func AddIssue(job *models.Job, description string, severity models.IssueSeverity, at time.Time) (*models.JobIssue, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("issue description is required")
	}
	if !severity.Valid() {
		return nil, fmt.Errorf("invalid issue severity %q (want low, medium or high)", severity)
	}
	job.Issues = append(job.Issues, models.JobIssue{
		ID:          models.NewUUID(),
		Description: description,
		Severity:    severity,
		CreatedAt:   at,
	})
	job.UpdatedAt = at
	return &job.Issues[len(job.Issues)-1], nil
}

// ResolveIssue marks an issue resolved. Resolving again replaces the
// resolution.
func ResolveIssue(job *models.Job, issueID, resolution string, at time.Time) error {
	for i := range job.Issues {
		if job.Issues[i].ID == issueID {
			issue := &job.Issues[i]
			issue.Resolved = true
			issue.Resolution = strings.TrimSpace(resolution)
			issue.ResolvedAt = utils.ToPtr(at)
			job.UpdatedAt = at
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
}

// OpenIssues counts the issues not yet resolved.
func OpenIssues(job *models.Job) int {
	n := 0
	for _, issue := range job.Issues {
		if !issue.Resolved {
			n++
		}
	}
	return n
}
