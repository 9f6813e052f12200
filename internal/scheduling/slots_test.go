package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-09-06 is a Sunday.
var sunday = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

func baptismRule() ServiceRule {
	return ServiceRule{
		Name:            "Baptism",
		DurationMinutes: 60,
		AllowedWeekdays: []time.Weekday{time.Sunday},
	}
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	g := NewEnumerator(DefaultConfig())

	slots, err := g.AvailableSlots(baptismRule(), sunday, nil)
	require.NoError(t, err)

	// 08:00 through 16:00 inclusive for a 60-minute service closing at 17:00.
	assert.Len(t, slots, 17)
	assert.Equal(t, 480, slots[0].Start)
	assert.Equal(t, "8:00 AM", slots[0].Label)
	assert.Equal(t, 960, slots[len(slots)-1].Start)

	for i := 1; i < len(slots); i++ {
		assert.Greater(t, slots[i].Start, slots[i-1].Start, "slots must be ascending")
	}
}

func TestAvailableSlotsWrongWeekday(t *testing.T) {
	g := NewEnumerator(DefaultConfig())
	monday := sunday.AddDate(0, 0, 1)

	slots, err := g.AvailableSlots(baptismRule(), monday, nil)
	assert.Nil(t, slots)

	var dayErr *DayNotAllowedError
	require.ErrorAs(t, err, &dayErr)
	assert.Equal(t, time.Monday, dayErr.Day)
	assert.Contains(t, dayErr.Error(), "Baptism")
}

func TestAvailableSlotsRespectBuffer(t *testing.T) {
	g := NewEnumerator(DefaultConfig())

	// Booking at 09:00-10:00: its occupied interval plus the 60-minute
	// buffer removes every start from 08:30 (extends into it) through
	// 10:30 (ends inside the buffer). 11:00 is the next open start.
	existing := []BookedInterval{{Date: sunday, Start: 540, Duration: 60, ServiceName: "Baptism"}}

	slots, err := g.AvailableSlots(baptismRule(), sunday, existing)
	require.NoError(t, err)

	starts := make(map[int]bool, len(slots))
	for _, s := range slots {
		starts[s.Start] = true
	}

	assert.True(t, starts[480], "08:00 should remain open")
	assert.False(t, starts[510], "08:30 extends into the booking")
	assert.False(t, starts[540], "09:00 is occupied")
	assert.False(t, starts[600], "10:00 starts inside the buffer")
	assert.False(t, starts[630], "10:30 starts inside the buffer")
	assert.True(t, starts[660], "11:00 clears the buffer")
}

func TestAvailableSlotsDiscardsPastClosing(t *testing.T) {
	g := NewEnumerator(DefaultConfig())
	rule := ServiceRule{
		Name:            "Wedding",
		DurationMinutes: 120,
		AllowedWeekdays: []time.Weekday{time.Sunday},
	}

	slots, err := g.AvailableSlots(rule, sunday, nil)
	require.NoError(t, err)

	for _, s := range slots {
		assert.LessOrEqual(t, s.End, 17*60, "slot %s must not run past closing", s.Label)
	}
	assert.Equal(t, 900, slots[len(slots)-1].Start, "15:00 is the last start that fits")
}

func TestConcurrentServiceReusesSharedStart(t *testing.T) {
	g := NewEnumerator(DefaultConfig())
	rule := ServiceRule{
		Name:            "Sunday Mass",
		DurationMinutes: 60,
		AllowedWeekdays: []time.Weekday{time.Sunday},
		AllowConcurrent: true,
	}

	existing := []BookedInterval{{Date: sunday, Start: 480, Duration: 60, ServiceName: "Sunday Mass"}}

	slots, err := g.AvailableSlots(rule, sunday, existing)
	require.NoError(t, err)

	// The only candidate offered is the existing shared start time.
	require.Len(t, slots, 1)
	assert.Equal(t, 480, slots[0].Start)
	assert.Equal(t, "8:00 AM", slots[0].Label)
	assert.True(t, slots[0].Concurrent)
}

func TestConcurrentSharedStartBlockedByOtherService(t *testing.T) {
	g := NewEnumerator(DefaultConfig())
	rule := ServiceRule{
		Name:            "Sunday Mass",
		DurationMinutes: 60,
		AllowedWeekdays: []time.Weekday{time.Sunday},
		AllowConcurrent: true,
	}

	// Another service now occupies the mass's shared start time, so even
	// the reused candidate fails and no slots are offered.
	existing := []BookedInterval{
		{Date: sunday, Start: 480, Duration: 60, ServiceName: "Sunday Mass"},
		{Date: sunday, Start: 510, Duration: 60, ServiceName: "Baptism"},
	}

	slots, err := g.AvailableSlots(rule, sunday, existing)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestConcurrentServiceWithoutBookingsUsesGrid(t *testing.T) {
	g := NewEnumerator(DefaultConfig())
	rule := ServiceRule{
		Name:            "Sunday Mass",
		DurationMinutes: 60,
		AllowedWeekdays: []time.Weekday{time.Sunday},
		AllowConcurrent: true,
	}

	slots, err := g.AvailableSlots(rule, sunday, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 17)
	for _, s := range slots {
		assert.False(t, s.Concurrent)
	}
}

func TestWeekdayAllowedEmptySet(t *testing.T) {
	rule := ServiceRule{Name: "Blessing"}
	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.True(t, rule.WeekdayAllowed(d))
	}
}
