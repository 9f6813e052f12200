package scheduling

import (
	"context"
	"fmt"
	"time"
)

// BookingRequest is a candidate booking before persistence.
type BookingRequest struct {
	Date           time.Time
	StartMinute    int
	AmountTendered float64
	OfferingTotal  float64
}

// ValidationError is a constraint violation the caller can correct and
// resubmit. Store failures are returned as ordinary wrapped errors.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func failf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Validator is the pre-booking gate. Each call is a stateless function of
// its inputs plus a point-in-time read of existing bookings; persistence
// happens elsewhere only after full success.
type Validator struct {
	enum     *Enumerator
	multiDay *MultiDayChecker
	source   IntervalSource
	now      func() time.Time
}

func NewValidator(enum *Enumerator, source IntervalSource, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{
		enum:     enum,
		multiDay: NewMultiDayChecker(enum, source),
		source:   source,
		now:      now,
	}
}

// ValidateBooking runs the booking checks in order and returns the first
// failure as a *ValidationError. A nil return means the booking may be
// persisted.
func (v *Validator) ValidateBooking(ctx context.Context, req BookingRequest, rule ServiceRule) error {
	today := startOfDay(v.now())
	candidateDay := startOfDay(req.Date)

	if !candidateDay.After(today) {
		return failf("bookings must be made at least one day in advance")
	}

	if !rule.WeekdayAllowed(candidateDay.Weekday()) {
		return failf("%s is not offered on %s", rule.Name, candidateDay.Weekday())
	}

	existing, err := v.source.ActiveIntervals(ctx, candidateDay)
	if err != nil {
		return fmt.Errorf("failed to load bookings for %s: %w", candidateDay.Format("2006-01-02"), err)
	}

	candidate := Interval{Start: req.StartMinute, End: req.StartMinute + rule.DurationMinutes}
	res := CheckConflict(candidate, existing, ConflictOptions{
		BufferMinutes:   v.enum.cfg.BufferMinutes,
		AllowConcurrent: rule.AllowConcurrent,
		ServiceName:     rule.Name,
	})
	if res.HasConflict {
		return failf("the selected time conflicts with an existing %s booking; next available time is %s",
			res.ConflictingService, res.NextAvailableStart)
	}

	if rule.RequiresMultipleDays && rule.ConsecutiveDays > 1 {
		report := v.multiDay.CheckConsecutiveDays(ctx, rule, candidateDay, rule.ConsecutiveDays)
		if !report.AllDaysAvailable {
			for _, day := range report.Days {
				if !day.Allowed {
					return failf("%s requires %d consecutive days but %s falls on %s, which is not an allowed day",
						rule.Name, rule.ConsecutiveDays, day.Date.Format("2006-01-02"), day.DayName)
				}
				if !day.HasAvailability {
					return failf("%s requires %d consecutive days but %s has no availability",
						rule.Name, rule.ConsecutiveDays, day.Date.Format("2006-01-02"))
				}
			}
			return failf("%s requires %d consecutive available days starting %s",
				rule.Name, rule.ConsecutiveDays, candidateDay.Format("2006-01-02"))
		}
	}

	totalDue := rule.Price + req.OfferingTotal
	if req.AmountTendered < totalDue {
		return failf("insufficient payment: %.2f tendered, %.2f required (short %.2f)",
			req.AmountTendered, totalDue, totalDue-req.AmountTendered)
	}

	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
