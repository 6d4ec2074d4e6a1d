package pricing

import (
	"fmt"
	"time"

	"velokassa-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Quote is a suggested rental cost for a date range at a daily rate
type Quote struct {
	Days        int   `json:"days"`
	PricePerDay int64 `json:"pricePerDay"`
	Total       int64 `json:"total"`
}

// ParseDate validates a yyyy-mm-dd formatted string
func ParseDate(dateStr string) (time.Time, error) {
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	return d, nil
}

// InclusiveDays counts the days between two dates with both ends
// included, so a same-day rental counts as one day.
func InclusiveDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("end date must be >= start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// EstimateCost suggests the accrued amount for a rental over an
// inclusive date range. A zero rate falls back to the default daily
// price; the operator can still override the amount when the rental is
// recorded.
func EstimateCost(startDate, endDate string, pricePerDay int64) (Quote, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid end date: %w", err)
	}

	days, err := InclusiveDays(start, end)
	if err != nil {
		return Quote{}, err
	}

	if pricePerDay == 0 {
		pricePerDay = domain.DefaultPricePerDay
	}

	return Quote{
		Days:        days,
		PricePerDay: pricePerDay,
		Total:       int64(days) * pricePerDay,
	}, nil
}
