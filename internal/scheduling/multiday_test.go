package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned intervals per date and can fail on demand.
type fakeSource struct {
	byDate   map[string][]BookedInterval
	failDate string
}

func (f *fakeSource) ActiveIntervals(_ context.Context, date time.Time) ([]BookedInterval, error) {
	key := date.Format("2006-01-02")
	if key == f.failDate {
		return nil, errors.New("store unavailable")
	}
	return f.byDate[key], nil
}

func novenaRule() ServiceRule {
	return ServiceRule{
		Name:                 "Novena",
		DurationMinutes:      60,
		AllowedWeekdays:      []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		RequiresMultipleDays: true,
		ConsecutiveDays:      9,
	}
}

func TestCheckConsecutiveDaysAllFree(t *testing.T) {
	checker := NewMultiDayChecker(NewEnumerator(DefaultConfig()), &fakeSource{})
	rule := ServiceRule{Name: "Mission Week", DurationMinutes: 60, ConsecutiveDays: 3, RequiresMultipleDays: true}

	report := checker.CheckConsecutiveDays(context.Background(), rule, sunday, 3)

	require.Len(t, report.Days, 3)
	assert.True(t, report.AllDaysAvailable)
	for i, day := range report.Days {
		assert.Equal(t, sunday.AddDate(0, 0, i), day.Date)
		assert.True(t, day.Allowed)
		assert.True(t, day.HasAvailability)
		assert.Equal(t, 17, day.AvailableSlots)
	}
}

func TestCheckConsecutiveDaysStartingOnDisallowedDay(t *testing.T) {
	checker := NewMultiDayChecker(NewEnumerator(DefaultConfig()), &fakeSource{})

	// 2026-09-05 is a Saturday; the novena only runs Monday-Friday, so
	// day one already fails even though every day has open slots.
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	report := checker.CheckConsecutiveDays(context.Background(), novenaRule(), saturday, 9)

	require.Len(t, report.Days, 9)
	assert.False(t, report.AllDaysAvailable)
	assert.False(t, report.Days[0].Allowed)
	assert.Equal(t, "Saturday", report.Days[0].DayName)
	assert.True(t, report.Days[0].HasAvailability, "slot availability is still reported for disallowed days")
	assert.False(t, report.Days[1].Allowed, "Sunday also fails")
	assert.True(t, report.Days[2].Allowed, "Monday is permitted")
}

func TestCheckConsecutiveDaysFetchErrorDoesNotAbort(t *testing.T) {
	source := &fakeSource{failDate: sunday.AddDate(0, 0, 1).Format("2006-01-02")}
	checker := NewMultiDayChecker(NewEnumerator(DefaultConfig()), source)
	rule := ServiceRule{Name: "Mission Week", DurationMinutes: 60, ConsecutiveDays: 3, RequiresMultipleDays: true}

	report := checker.CheckConsecutiveDays(context.Background(), rule, sunday, 3)

	require.Len(t, report.Days, 3, "all days are reported despite the failure")
	assert.False(t, report.AllDaysAvailable)
	assert.True(t, report.Days[1].FetchFailed)
	assert.False(t, report.Days[1].HasAvailability)
	assert.False(t, report.Days[0].FetchFailed)
	assert.False(t, report.Days[2].FetchFailed)
}

func TestCheckConsecutiveDaysFullDayBreaksSpan(t *testing.T) {
	// Fill the middle day solid with one long exclusive booking; the
	// buffer then blocks everything before closing.
	middle := sunday.AddDate(0, 0, 1)
	source := &fakeSource{byDate: map[string][]BookedInterval{
		middle.Format("2006-01-02"): {{Start: 480, Duration: 540, ServiceName: "Retreat"}},
	}}
	checker := NewMultiDayChecker(NewEnumerator(DefaultConfig()), source)
	rule := ServiceRule{Name: "Mission Week", DurationMinutes: 60, ConsecutiveDays: 3, RequiresMultipleDays: true}

	report := checker.CheckConsecutiveDays(context.Background(), rule, sunday, 3)

	assert.False(t, report.AllDaysAvailable)
	assert.True(t, report.Days[0].HasAvailability)
	assert.False(t, report.Days[1].HasAvailability)
	assert.Zero(t, report.Days[1].AvailableSlots)
	assert.True(t, report.Days[2].HasAvailability)
}

func TestCheckConsecutiveDaysConcurrentDayCollapsesToSharedSlot(t *testing.T) {
	day := sunday.Format("2006-01-02")
	source := &fakeSource{byDate: map[string][]BookedInterval{
		day: {{Start: 480, Duration: 60, ServiceName: "Sunday Mass"}},
	}}
	checker := NewMultiDayChecker(NewEnumerator(DefaultConfig()), source)
	rule := ServiceRule{
		Name:            "Sunday Mass",
		DurationMinutes: 60,
		AllowConcurrent: true,
	}

	report := checker.CheckConsecutiveDays(context.Background(), rule, sunday, 1)

	require.Len(t, report.Days, 1)
	assert.True(t, report.Days[0].HasAvailability)
	assert.Equal(t, 1, report.Days[0].AvailableSlots, "exactly the shared start time")
}
