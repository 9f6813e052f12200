package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapSymmetry(t *testing.T) {
	pairs := []struct {
		name string
		a, b Interval
	}{
		{"identical", Interval{540, 600}, Interval{540, 600}},
		{"partial", Interval{540, 600}, Interval{570, 630}},
		{"contained", Interval{540, 660}, Interval{570, 600}},
		{"disjoint", Interval{540, 600}, Interval{720, 780}},
		{"touching", Interval{540, 600}, Interval{600, 660}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.a.Overlaps(tt.b), tt.b.Overlaps(tt.a))

			existingA := []BookedInterval{{Start: tt.a.Start, Duration: tt.a.End - tt.a.Start, ServiceName: "Wedding"}}
			existingB := []BookedInterval{{Start: tt.b.Start, Duration: tt.b.End - tt.b.Start, ServiceName: "Wedding"}}
			opts := ConflictOptions{BufferMinutes: 0, ServiceName: "Funeral"}

			resAB := CheckConflict(tt.a, existingB, opts)
			resBA := CheckConflict(tt.b, existingA, opts)
			assert.Equal(t, resAB.HasConflict, resBA.HasConflict)
		})
	}
}

func TestBufferEnforcement(t *testing.T) {
	// Existing booking ends at minute 600 with a 60-minute buffer.
	existing := []BookedInterval{{Start: 540, Duration: 60, ServiceName: "Baptism"}}
	opts := ConflictOptions{BufferMinutes: 60, ServiceName: "Wedding"}

	tests := []struct {
		name     string
		start    int
		conflict bool
	}{
		{"starts exactly at end", 600, true},
		{"starts one minute after end", 601, true},
		{"starts just inside buffer edge", 659, true},
		{"starts exactly at buffer end", 660, false},
		{"starts well clear", 720, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckConflict(Interval{tt.start, tt.start + 30}, existing, opts)
			assert.Equal(t, tt.conflict, res.HasConflict)
			if tt.conflict {
				assert.Equal(t, "Baptism", res.ConflictingService)
				assert.Equal(t, "11:00 AM", res.NextAvailableStart)
			}
		})
	}
}

func TestConcurrentSameServiceStacking(t *testing.T) {
	existing := []BookedInterval{{Start: 480, Duration: 60, ServiceName: "Sunday Mass"}}

	// Second booking of the same concurrent service at the identical
	// start time stacks without conflict.
	same := CheckConflict(Interval{480, 540}, existing, ConflictOptions{
		BufferMinutes:   60,
		AllowConcurrent: true,
		ServiceName:     "Sunday Mass",
	})
	assert.False(t, same.HasConflict)

	// A different service at the same time still conflicts under normal
	// overlap rules.
	other := CheckConflict(Interval{480, 540}, existing, ConflictOptions{
		BufferMinutes: 60,
		ServiceName:   "Baptism",
	})
	assert.True(t, other.HasConflict)
	assert.Equal(t, "Sunday Mass", other.ConflictingService)
}

func TestConcurrentBufferStillBlocks(t *testing.T) {
	existing := []BookedInterval{{Start: 480, Duration: 60, ServiceName: "Sunday Mass"}}
	opts := ConflictOptions{BufferMinutes: 60, AllowConcurrent: true, ServiceName: "Sunday Mass"}

	// Start inside [end, bufferEnd).
	res := CheckConflict(Interval{570, 630}, existing, opts)
	assert.True(t, res.HasConflict)
	assert.Equal(t, "10:00 AM", res.NextAvailableStart)

	// End inside (end, bufferEnd].
	res = CheckConflict(Interval{510, 570}, existing, opts)
	assert.True(t, res.HasConflict)
}

func TestConflictShortCircuitsOnFirstMatch(t *testing.T) {
	existing := []BookedInterval{
		{Start: 540, Duration: 60, ServiceName: "Wedding"},
		{Start: 555, Duration: 60, ServiceName: "Funeral"},
	}

	res := CheckConflict(Interval{570, 630}, existing, ConflictOptions{BufferMinutes: 60, ServiceName: "Baptism"})
	assert.True(t, res.HasConflict)
	assert.Equal(t, "Wedding", res.ConflictingService)
	assert.Equal(t, "11:00 AM", res.NextAvailableStart)
}

func TestNoConflictAgainstEmptyDay(t *testing.T) {
	res := CheckConflict(Interval{540, 600}, nil, ConflictOptions{BufferMinutes: 60, ServiceName: "Baptism"})
	assert.False(t, res.HasConflict)
	assert.Empty(t, res.ConflictingService)
	assert.Empty(t, res.NextAvailableStart)
}

func TestCandidateContainsExisting(t *testing.T) {
	existing := []BookedInterval{{Start: 570, Duration: 30, ServiceName: "Confession"}}

	res := CheckConflict(Interval{540, 660}, existing, ConflictOptions{BufferMinutes: 60, ServiceName: "Wedding"})
	assert.True(t, res.HasConflict)
}
