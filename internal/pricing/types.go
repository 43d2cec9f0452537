package pricing

import "github.com/jesses-code-adventures/quote/internal/models"

// LineCost is the priced result of one line. Cost includes the line's
// high-reach premium and addons; Minutes and Hours are the base labour time
// and exclude HighReachMinutes.
type LineCost struct {
	Cost             float64 `json:"cost"`
	Minutes          float64 `json:"minutes"`
	Hours            float64 `json:"hours"`
	HighReachMinutes float64 `json:"high_reach_minutes,omitempty"`
	HighReachCost    float64 `json:"high_reach_cost,omitempty"`
	AddonCost        float64 `json:"addon_cost,omitempty"`
}

// TotalMinutes is base plus high-reach labour time.
func (c LineCost) TotalMinutes() float64 {
	return c.Minutes + c.HighReachMinutes
}

// MoneyBreakdown splits a quote's dollars by bucket. Windows and Pressure
// already include high-reach premiums and addons; HighReach and Addons
// report those parts again for display only.
type MoneyBreakdown struct {
	BaseFee    float64 `json:"base_fee"`
	Windows    float64 `json:"windows"`
	Pressure   float64 `json:"pressure"`
	Setup      float64 `json:"setup"`
	Travel     float64 `json:"travel"`
	HighReach  float64 `json:"high_reach"`
	Addons     float64 `json:"addons"`
	Subtotal   float64 `json:"subtotal"`
	// MinimumJob is set only when the minimum raised the total.
	MinimumJob float64 `json:"minimum_job,omitempty"`
	Total      float64 `json:"total"`
}

// TimeBreakdown splits a quote's labour time. TotalMinutes excludes travel
// but TotalHours includes it.
type TimeBreakdown struct {
	WindowsMinutes   float64 `json:"windows_minutes"`
	PressureMinutes  float64 `json:"pressure_minutes"`
	HighReachMinutes float64 `json:"high_reach_minutes"`
	SetupMinutes     float64 `json:"setup_minutes"`
	TravelMinutes    float64 `json:"travel_minutes"`
	TotalMinutes     float64 `json:"total_minutes"`

	WindowsHours   float64 `json:"windows_hours"`
	PressureHours  float64 `json:"pressure_hours"`
	HighReachHours float64 `json:"high_reach_hours"`
	SetupHours     float64 `json:"setup_hours"`
	TravelHours    float64 `json:"travel_hours"`
	TotalHours     float64 `json:"total_hours"`
}

// LineItem is one audit row of a quote. Minutes include high-reach time.
type LineItem struct {
	ID          string             `json:"id"`
	Type        models.JobItemType `json:"type"`
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Minutes     float64            `json:"minutes"`
}

type QuoteResult struct {
	Money     MoneyBreakdown `json:"money"`
	Time      TimeBreakdown  `json:"time"`
	LineItems []LineItem     `json:"line_items"`
	Subtotal  float64        `json:"subtotal"`
	GST       float64        `json:"gst"`
	Total     float64        `json:"total"`
}

// Breakdown returns the subtotal, GST and total to carry into a job.
func (r QuoteResult) Breakdown() models.Breakdown {
	return models.Breakdown{Subtotal: r.Subtotal, GST: r.GST, Total: r.Total}
}
