package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is a half-open [Start, End) range in minutes of day.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// BookedInterval is the time footprint of a persisted appointment. Only
// pending and confirmed appointments are represented here; callers filter
// out cancelled and completed rows before building these.
type BookedInterval struct {
	Date        time.Time
	Start       int
	Duration    int
	ServiceName string
}

func (b BookedInterval) End() int {
	return b.Start + b.Duration
}

func (b BookedInterval) Interval() Interval {
	return Interval{Start: b.Start, End: b.End()}
}

// BufferEnd returns the end of the mandatory gap after the booking.
func (b BookedInterval) BufferEnd(bufferMinutes int) int {
	return b.End() + bufferMinutes
}

// FormatClock renders a minute-of-day value as a 12-hour clock string,
// e.g. 540 -> "9:00 AM".
func FormatClock(minute int) string {
	h := minute / 60 % 24
	m := minute % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// ParseClock parses "HH:MM" into minutes of day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time out of range: %s", s)
	}

	return hour*60 + minute, nil
}
