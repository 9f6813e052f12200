package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed "now" so advance-booking checks are deterministic: Friday
// 2026-09-04 10:00.
var clock = func() time.Time {
	return time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)
}

func newValidator(source IntervalSource) *Validator {
	return NewValidator(NewEnumerator(DefaultConfig()), source, clock)
}

func TestValidateBookingHappyPath(t *testing.T) {
	v := newValidator(&fakeSource{})

	err := v.ValidateBooking(context.Background(), BookingRequest{
		Date:           sunday,
		StartMinute:    540,
		AmountTendered: 500,
	}, ServiceRule{Name: "Baptism", Price: 500, DurationMinutes: 60, AllowedWeekdays: []time.Weekday{time.Sunday}})

	assert.NoError(t, err)
}

func TestValidateBookingRejectsSameDay(t *testing.T) {
	v := newValidator(&fakeSource{})
	today := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

	err := v.ValidateBooking(context.Background(), BookingRequest{Date: today, StartMinute: 540},
		ServiceRule{Name: "Baptism", DurationMinutes: 60})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "one day in advance")
}

func TestValidateBookingRejectsPastDate(t *testing.T) {
	v := newValidator(&fakeSource{})
	yesterday := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	err := v.ValidateBooking(context.Background(), BookingRequest{Date: yesterday, StartMinute: 540},
		ServiceRule{Name: "Baptism", DurationMinutes: 60})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestValidateBookingRejectsDisallowedWeekday(t *testing.T) {
	v := newValidator(&fakeSource{})
	monday := sunday.AddDate(0, 0, 1)

	err := v.ValidateBooking(context.Background(), BookingRequest{Date: monday, StartMinute: 540},
		ServiceRule{Name: "Baptism", DurationMinutes: 60, AllowedWeekdays: []time.Weekday{time.Sunday}})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "Monday")
}

func TestValidateBookingConflictReportsNextAvailable(t *testing.T) {
	source := &fakeSource{byDate: map[string][]BookedInterval{
		sunday.Format("2006-01-02"): {{Start: 540, Duration: 60, ServiceName: "Baptism"}},
	}}
	v := newValidator(source)

	// Candidate at 10:00 starts exactly at the booking's end, which is
	// inside the buffer window; next clear start is 11:00.
	err := v.ValidateBooking(context.Background(), BookingRequest{Date: sunday, StartMinute: 600},
		ServiceRule{Name: "Wedding", DurationMinutes: 60, AllowedWeekdays: []time.Weekday{time.Sunday}})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "Baptism")
	assert.Contains(t, vErr.Reason, "11:00 AM")

	// 11:00 itself clears.
	err = v.ValidateBooking(context.Background(), BookingRequest{Date: sunday, StartMinute: 660},
		ServiceRule{Name: "Wedding", DurationMinutes: 60, AllowedWeekdays: []time.Weekday{time.Sunday}})
	assert.NoError(t, err)
}

func TestValidateBookingConcurrentStacking(t *testing.T) {
	source := &fakeSource{byDate: map[string][]BookedInterval{
		sunday.Format("2006-01-02"): {{Start: 480, Duration: 60, ServiceName: "Sunday Mass"}},
	}}
	v := newValidator(source)
	mass := ServiceRule{
		Name:            "Sunday Mass",
		DurationMinutes: 60,
		AllowedWeekdays: []time.Weekday{time.Sunday},
		AllowConcurrent: true,
	}

	// Second mass booking at the shared 08:00 start stacks.
	err := v.ValidateBooking(context.Background(), BookingRequest{Date: sunday, StartMinute: 480}, mass)
	assert.NoError(t, err)

	// 08:30 for the same service ends inside the buffer and is rejected.
	err = v.ValidateBooking(context.Background(), BookingRequest{Date: sunday, StartMinute: 510}, mass)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestValidateBookingMultiDaySpanInfeasible(t *testing.T) {
	v := newValidator(&fakeSource{})

	// Nine days from Monday 2026-09-07 run through Saturday 2026-09-12,
	// which the Monday-Friday novena does not allow. Day one itself is
	// fine, so the failure comes from the span check.
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	err := v.ValidateBooking(context.Background(), BookingRequest{Date: monday, StartMinute: 540}, novenaRule())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "consecutive days")
	assert.Contains(t, vErr.Reason, "2026-09-12")
	assert.Contains(t, vErr.Reason, "Saturday")
}

func TestValidateBookingPaymentBoundary(t *testing.T) {
	v := newValidator(&fakeSource{})
	rule := ServiceRule{Name: "Wedding", Price: 1500, DurationMinutes: 120, AllowedWeekdays: []time.Weekday{time.Sunday}}

	// Exactly the total due passes.
	err := v.ValidateBooking(context.Background(), BookingRequest{
		Date:           sunday,
		StartMinute:    540,
		AmountTendered: 1700,
		OfferingTotal:  200,
	}, rule)
	assert.NoError(t, err)

	// One cent short fails and names the exact shortfall.
	err = v.ValidateBooking(context.Background(), BookingRequest{
		Date:           sunday,
		StartMinute:    540,
		AmountTendered: 1699.99,
		OfferingTotal:  200,
	}, rule)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "short 0.01")
}

func TestValidateBookingStoreFailureIsNotValidationError(t *testing.T) {
	source := &fakeSource{failDate: sunday.Format("2006-01-02")}
	v := newValidator(source)

	err := v.ValidateBooking(context.Background(), BookingRequest{Date: sunday, StartMinute: 540},
		ServiceRule{Name: "Baptism", DurationMinutes: 60, AllowedWeekdays: []time.Weekday{time.Sunday}})

	require.Error(t, err)
	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr), "store failures must not be constraint violations")
	assert.Contains(t, err.Error(), "failed to load bookings")
}
