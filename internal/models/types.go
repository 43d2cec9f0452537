package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jesses-code-adventures/quote/internal/money"
)

// WindowLine is one quotable group of identical window panes. Lines are
// replaced whole when edited.
type WindowLine struct {
	ID           string        `json:"id" yaml:"id"`
	WindowTypeID string        `json:"window_type_id" yaml:"window_type_id"`
	Panes        int           `json:"panes" yaml:"panes"`
	Inside       bool          `json:"inside" yaml:"inside"`
	Outside      bool          `json:"outside" yaml:"outside"`
	HighReach    bool          `json:"high_reach" yaml:"high_reach"`
	SoilLevel    string        `json:"soil_level,omitempty" yaml:"soil_level,omitempty"`
	ConditionID  string        `json:"condition_id,omitempty" yaml:"condition_id,omitempty"`
	AccessID     string        `json:"access_id,omitempty" yaml:"access_id,omitempty"`
	TintLevel    string        `json:"tint_level,omitempty" yaml:"tint_level,omitempty"`
	Modifiers    []string      `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Addons       []WindowAddon `json:"addons,omitempty" yaml:"addons,omitempty"`
}

// WindowAddon is a per-pane extra on a window line. A zero BasePrice is
// filled from the catalog addon type of the same id.
type WindowAddon struct {
	ID           string  `json:"id" yaml:"id"`
	BasePrice    float64 `json:"base_price,omitempty" yaml:"base_price,omitempty"`
	InsideCount  int     `json:"inside_count" yaml:"inside_count"`
	OutsideCount int     `json:"outside_count" yaml:"outside_count"`
	Severity     string  `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// PressureLine is one quotable surface area.
type PressureLine struct {
	ID        string          `json:"id" yaml:"id"`
	SurfaceID string          `json:"surface_id" yaml:"surface_id"`
	AreaSqm   float64         `json:"area_sqm" yaml:"area_sqm"`
	SoilLevel string          `json:"soil_level,omitempty" yaml:"soil_level,omitempty"`
	Access    string          `json:"access,omitempty" yaml:"access,omitempty"`
	Modifiers []string        `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Addons    []PressureAddon `json:"addons,omitempty" yaml:"addons,omitempty"`
}

// PressureAddon is a per-m² or flat extra on a pressure line.
type PressureAddon struct {
	ID        string  `json:"id" yaml:"id"`
	BasePrice float64 `json:"base_price,omitempty" yaml:"base_price,omitempty"`
	AreaSqm   float64 `json:"area_sqm,omitempty" yaml:"area_sqm,omitempty"`
	// PerSqm applies only to ids the catalog does not know.
	PerSqm    bool    `json:"per_sqm,omitempty" yaml:"per_sqm,omitempty"`
	Severity  string  `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// QuoteState is the full pricing configuration of one quote. Nil line
// slices are valid and mean no lines. Travel fields are optional.
type QuoteState struct {
	BaseFee                  float64 `json:"base_fee" yaml:"base_fee"`
	HourlyRate               float64 `json:"hourly_rate" yaml:"hourly_rate"`
	PressureHourlyRate       float64 `json:"pressure_hourly_rate" yaml:"pressure_hourly_rate"`
	MinimumJob               float64 `json:"minimum_job" yaml:"minimum_job"`
	HighReachModifierPercent float64 `json:"high_reach_modifier_percent" yaml:"high_reach_modifier_percent"`
	InsideMultiplier         float64 `json:"inside_multiplier" yaml:"inside_multiplier"`
	OutsideMultiplier        float64 `json:"outside_multiplier" yaml:"outside_multiplier"`
	SetupBufferMinutes       float64 `json:"setup_buffer_minutes" yaml:"setup_buffer_minutes"`
	// GSTRate of zero means the standard 10%.
	GSTRate                  float64 `json:"gst_rate,omitempty" yaml:"gst_rate,omitempty"`

	TravelMinutes     *float64 `json:"travel_minutes,omitempty" yaml:"travel_minutes,omitempty"`
	TravelKm          *float64 `json:"travel_km,omitempty" yaml:"travel_km,omitempty"`
	TravelRatePerHour *float64 `json:"travel_rate_per_hour,omitempty" yaml:"travel_rate_per_hour,omitempty"`
	TravelRatePerKm   *float64 `json:"travel_rate_per_km,omitempty" yaml:"travel_rate_per_km,omitempty"`

	WindowLines   []WindowLine   `json:"window_lines" yaml:"window_lines"`
	PressureLines []PressureLine `json:"pressure_lines" yaml:"pressure_lines"`
}

// EffectiveGSTRate is the quote's GST rate, or the standard rate when unset.
func (s QuoteState) EffectiveGSTRate() float64 {
	if s.GSTRate > 0 {
		return s.GSTRate
	}
	return money.GSTRate
}

// Quote is a quote document as read from a quote file.
type Quote struct {
	ID          string     `json:"id" yaml:"id"`
	ClientName  string     `json:"client_name" yaml:"client_name"`
	SiteAddress string     `json:"site_address,omitempty" yaml:"site_address,omitempty"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	ValidDays   int        `json:"valid_days,omitempty" yaml:"valid_days,omitempty"`
	State       QuoteState `json:"state" yaml:"state"`
}

type JobItemType string

const (
	JobItemWindow   JobItemType = "window"
	JobItemPressure JobItemType = "pressure"
)

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCompleted ItemStatus = "completed"
	ItemSkipped   ItemStatus = "skipped"
)

// Done reports whether the item counts towards job progress.
func (s ItemStatus) Done() bool {
	return s == ItemCompleted || s == ItemSkipped
}

type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in-progress"
	JobPaused     JobStatus = "paused"
	JobCompleted  JobStatus = "completed"
	JobInvoiced   JobStatus = "invoiced"
	JobCancelled  JobStatus = "cancelled"
)

// JobItem is one priced line of a job. EstimatedTime is in minutes.
type JobItem struct {
	ID              string        `json:"id"`
	Type            JobItemType   `json:"type"`
	Description     string        `json:"description"`
	EstimatedPrice  float64       `json:"estimated_price"`
	EstimatedTime   float64       `json:"estimated_time"`
	ActualPrice     float64       `json:"actual_price"`
	Status          ItemStatus    `json:"status"`
	AdjustReason    string        `json:"adjust_reason,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	WindowDetails   *WindowLine   `json:"window_details,omitempty"`
	PressureDetails *PressureLine `json:"pressure_details,omitempty"`
}

type Schedule struct {
	ScheduledDate   time.Time  `json:"scheduled_date"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`
	// ActualDuration is whole minutes, set on completion.
	ActualDuration  *int       `json:"actual_duration,omitempty"`
}

type JobPricing struct {
	EstimatedSubtotal float64 `json:"estimated_subtotal"`
	EstimatedGST      float64 `json:"estimated_gst"`
	EstimatedTotal    float64 `json:"estimated_total"`
	ActualSubtotal    float64 `json:"actual_subtotal"`
	ActualGST         float64 `json:"actual_gst"`
	ActualTotal       float64 `json:"actual_total"`
	AdjustmentReason  string  `json:"adjustment_reason,omitempty"`
}

// Breakdown is an authoritative subtotal/GST/total triple carried over from
// a quote.
type Breakdown struct {
	Subtotal float64 `json:"subtotal" yaml:"subtotal"`
	GST      float64 `json:"gst" yaml:"gst"`
	Total    float64 `json:"total" yaml:"total"`
}

// JobNote is a timestamped remark on a job, optionally about one item.
type JobNote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ItemID    string    `json:"item_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type IssueSeverity string

const (
	IssueLow    IssueSeverity = "low"
	IssueMedium IssueSeverity = "medium"
	IssueHigh   IssueSeverity = "high"
)

func (s IssueSeverity) Valid() bool {
	return s == IssueLow || s == IssueMedium || s == IssueHigh
}

// JobIssue is a problem found on site, such as a cracked frame.
type JobIssue struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Severity    IssueSeverity `json:"severity"`
	Resolved    bool          `json:"resolved"`
	Resolution  string        `json:"resolution,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}

// JobCompletion is the client sign-off recorded when a job completes.
// Rating is 1 to 5, or 0 when the client gave none.
type JobCompletion struct {
	CompletedAt     time.Time `json:"completed_at"`
	ClientName      string    `json:"client_name,omitempty"`
	ClientSignature string    `json:"client_signature,omitempty"`
	Feedback        string    `json:"feedback,omitempty"`
	Rating          int       `json:"rating,omitempty"`
}

type Job struct {
	ID           string         `json:"id" db:"id"`
	JobNumber    string         `json:"job_number" db:"job_number"`
	QuoteID      string         `json:"quote_id,omitempty" db:"quote_id"`
	ClientName   string         `json:"client_name" db:"client_name"`
	SiteAddress  string         `json:"site_address,omitempty" db:"site_address"`
	Status       JobStatus      `json:"status" db:"status"`
	GSTRate      float64        `json:"gst_rate" db:"gst_rate"`
	Items        []JobItem      `json:"items" db:"-"`
	Schedule     Schedule       `json:"schedule" db:"-"`
	Pricing      JobPricing     `json:"pricing" db:"-"`
	Notes        []JobNote      `json:"notes" db:"-"`
	Issues       []JobIssue     `json:"issues" db:"-"`
	Completion   *JobCompletion `json:"completion,omitempty" db:"-"`
	CancelReason string         `json:"cancel_reason,omitempty" db:"-"`
	InvoiceID    string         `json:"invoice_id,omitempty" db:"-"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

func NewUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
