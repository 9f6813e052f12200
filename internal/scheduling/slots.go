package scheduling

import (
	"fmt"
	"time"
)

// Config names the operating-window and buffer constants so they are
// injectable instead of living as literals inside the algorithm.
type Config struct {
	OpenMinute    int
	CloseMinute   int
	StepMinutes   int
	BufferMinutes int
}

// DefaultConfig is the parish office default: 08:00-17:00 in 30-minute
// steps with a 60-minute gap after every booking.
func DefaultConfig() Config {
	return Config{
		OpenMinute:    8 * 60,
		CloseMinute:   17 * 60,
		StepMinutes:   30,
		BufferMinutes: 60,
	}
}

// ServiceRule is the slice of a service definition the scheduling core
// needs. The service layer maps catalog rows into it.
type ServiceRule struct {
	Name                 string
	Price                float64
	DurationMinutes      int
	AllowedWeekdays      []time.Weekday
	AllowConcurrent      bool
	RequiresMultipleDays bool
	ConsecutiveDays      int
}

// WeekdayAllowed reports whether the rule permits booking on the given
// weekday. An empty set places no restriction.
func (r ServiceRule) WeekdayAllowed(day time.Weekday) bool {
	if len(r.AllowedWeekdays) == 0 {
		return true
	}
	for _, d := range r.AllowedWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Slot is a bookable start time offered to the caller.
type Slot struct {
	Start      int    `json:"start_minute"`
	End        int    `json:"end_minute"`
	Label      string `json:"label"`
	Available  bool   `json:"available"`
	Concurrent bool   `json:"concurrent"`
}

// DayNotAllowedError distinguishes "wrong day of week" from "day is
// fully booked"; callers must not treat it as an empty slot list.
type DayNotAllowedError struct {
	Service string
	Day     time.Weekday
}

func (e *DayNotAllowedError) Error() string {
	return fmt.Sprintf("%s is not offered on %s", e.Service, e.Day)
}

// Enumerator produces the daily slot grid filtered through the conflict
// detector.
type Enumerator struct {
	cfg Config
}

func NewEnumerator(cfg Config) *Enumerator {
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = 30
	}
	return &Enumerator{cfg: cfg}
}

// BufferMinutes exposes the configured post-booking gap so callers can
// run the conflict check with the same constant the grid uses.
func (g *Enumerator) BufferMinutes() int {
	return g.cfg.BufferMinutes
}

// AvailableSlots lists the open start times for a service on a date given
// that date's existing bookings. The result is recomputed on every call
// and ordered by ascending start time.
func (g *Enumerator) AvailableSlots(rule ServiceRule, date time.Time, existing []BookedInterval) ([]Slot, error) {
	if !rule.WeekdayAllowed(date.Weekday()) {
		return nil, &DayNotAllowedError{Service: rule.Name, Day: date.Weekday()}
	}
	return g.availableSlots(rule, existing), nil
}

func (g *Enumerator) availableSlots(rule ServiceRule, existing []BookedInterval) []Slot {
	opts := ConflictOptions{
		BufferMinutes:   g.cfg.BufferMinutes,
		AllowConcurrent: rule.AllowConcurrent,
		ServiceName:     rule.Name,
	}

	// Once a concurrent service has a booking for the day, every further
	// booking of it must reuse that shared start time; the grid is not
	// regenerated.
	if rule.AllowConcurrent {
		if shared, ok := sharedStart(rule.Name, existing); ok {
			candidate := Interval{Start: shared, End: shared + rule.DurationMinutes}
			if res := CheckConflict(candidate, existing, opts); !res.HasConflict {
				return []Slot{{
					Start:      candidate.Start,
					End:        candidate.End,
					Label:      FormatClock(candidate.Start),
					Available:  true,
					Concurrent: true,
				}}
			}
			return nil
		}
	}

	var slots []Slot
	for start := g.cfg.OpenMinute; start < g.cfg.CloseMinute; start += g.cfg.StepMinutes {
		end := start + rule.DurationMinutes
		if end > g.cfg.CloseMinute {
			continue
		}

		candidate := Interval{Start: start, End: end}
		if res := CheckConflict(candidate, existing, opts); res.HasConflict {
			continue
		}

		slots = append(slots, Slot{
			Start:     start,
			End:       end,
			Label:     FormatClock(start),
			Available: true,
		})
	}
	return slots
}

// sharedStart finds the start time already used by the named service, if
// it has any booking among the existing intervals.
func sharedStart(serviceName string, existing []BookedInterval) (int, bool) {
	for _, e := range existing {
		if e.ServiceName == serviceName {
			return e.Start, true
		}
	}
	return 0, false
}
