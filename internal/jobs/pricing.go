// Package jobs aggregates already-priced job items into job totals and
// drives a job through its lifecycle. Nothing here reads the catalog or
// modifiers except ItemsFromQuote.
package jobs

import (
	"math"
	"time"

	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
)

// CalculateJobPricing sums estimated and actual item prices and charges GST
// on each subtotal separately. A rate of zero or less means the standard 10%.
func CalculateJobPricing(items []models.JobItem, gstRate float64) (models.JobPricing, error) {
	if gstRate <= 0 {
		gstRate = money.GSTRate
	}
	var estimatedCents, actualCents int64
	for _, item := range items {
		est, err := money.ToCents(item.EstimatedPrice)
		if err != nil {
			return models.JobPricing{}, err
		}
		act, err := money.ToCents(item.ActualPrice)
		if err != nil {
			return models.JobPricing{}, err
		}
		estimatedCents += est
		actualCents += act
	}

	estimated := money.CalculateGST(money.FromCents(estimatedCents), gstRate)
	actual := money.CalculateGST(money.FromCents(actualCents), gstRate)
	return models.JobPricing{
		EstimatedSubtotal: money.FromCents(estimatedCents),
		EstimatedGST:      estimated.GST,
		EstimatedTotal:    withGST(estimatedCents, estimated.GST),
		ActualSubtotal:    money.FromCents(actualCents),
		ActualGST:         actual.GST,
		ActualTotal:       withGST(actualCents, actual.GST),
	}, nil
}

func withGST(subtotalCents int64, gst float64) float64 {
	gstCents, _ := money.ToCents(gst)
	return money.FromCents(subtotalCents + gstCents)
}

// ApplyBreakdown overwrites the estimate with an authoritative breakdown and
// mirrors it into the actual figures. It must run after CalculateJobPricing.
func ApplyBreakdown(pricing models.JobPricing, b models.Breakdown) models.JobPricing {
	pricing.EstimatedSubtotal = b.Subtotal
	pricing.EstimatedGST = b.GST
	pricing.EstimatedTotal = b.Total
	pricing.ActualSubtotal = b.Subtotal
	pricing.ActualGST = b.GST
	pricing.ActualTotal = b.Total
	return pricing
}

// CalculateJobProgress is the percentage of items completed or skipped,
// rounded half up. No items is 0%.
func CalculateJobProgress(items []models.JobItem) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, item := range items {
		if item.Status.Done() {
			done++
		}
	}
	return int(math.Floor(float64(done)*100/float64(len(items)) + 0.5))
}

// GetJobDuration is the minutes between the job's start and its end, or now
// while it is still running. A job that never started, or a negative span,
// is 0.
func GetJobDuration(job *models.Job, now time.Time) float64 {
	if job == nil || job.Schedule.ActualStartTime == nil {
		return 0
	}
	end := now
	if job.Schedule.ActualEndTime != nil {
		end = *job.Schedule.ActualEndTime
	}
	elapsed := end.Sub(*job.Schedule.ActualStartTime)
	if elapsed < 0 {
		return 0
	}
	return elapsed.Minutes()
}
