package scheduling

import (
	"context"
	"time"
)

// IntervalSource yields the pending/confirmed bookings occupying time on
// a date. Implemented by the appointment repository.
type IntervalSource interface {
	ActiveIntervals(ctx context.Context, date time.Time) ([]BookedInterval, error)
}

// DayAvailability is one day's entry in a consecutive-day report.
type DayAvailability struct {
	Date            time.Time `json:"date"`
	DayName         string    `json:"day_name"`
	Allowed         bool      `json:"is_allowed"`
	HasAvailability bool      `json:"has_availability"`
	AvailableSlots  int       `json:"available_slot_count"`
	FetchFailed     bool      `json:"fetch_failed,omitempty"`
}

// ConsecutiveDayReport covers an N-day span for a multi-day service.
type ConsecutiveDayReport struct {
	Days             []DayAvailability `json:"days"`
	AllDaysAvailable bool              `json:"all_days_available"`
}

// MultiDayChecker repeats the day-of-week and slot-availability checks
// across a span of consecutive calendar days.
type MultiDayChecker struct {
	enum   *Enumerator
	source IntervalSource
}

func NewMultiDayChecker(enum *Enumerator, source IntervalSource) *MultiDayChecker {
	return &MultiDayChecker{enum: enum, source: source}
}

// CheckConsecutiveDays reports per-day status for the span starting at
// startDate. A fetch failure marks that day unavailable but the remaining
// days are still checked and reported.
func (c *MultiDayChecker) CheckConsecutiveDays(ctx context.Context, rule ServiceRule, startDate time.Time, days int) ConsecutiveDayReport {
	report := ConsecutiveDayReport{AllDaysAvailable: true}

	for i := 0; i < days; i++ {
		date := startDate.AddDate(0, 0, i)
		entry := DayAvailability{
			Date:    date,
			DayName: date.Weekday().String(),
			Allowed: rule.WeekdayAllowed(date.Weekday()),
		}

		existing, err := c.source.ActiveIntervals(ctx, date)
		if err != nil {
			entry.FetchFailed = true
		} else {
			slots := c.enum.availableSlots(rule, existing)
			entry.AvailableSlots = len(slots)
			entry.HasAvailability = len(slots) > 0
		}

		if !entry.Allowed || !entry.HasAvailability {
			report.AllDaysAvailable = false
		}
		report.Days = append(report.Days, entry)
	}

	return report
}
