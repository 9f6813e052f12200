package scheduling

// ConflictOptions controls how a candidate interval is checked against
// existing bookings on the same date.
type ConflictOptions struct {
	BufferMinutes   int
	AllowConcurrent bool
	ServiceName     string
}

// ConflictResult reports the first blocking booking found, if any.
type ConflictResult struct {
	HasConflict        bool
	ConflictingService string
	NextAvailableStart string
}

// CheckConflict decides whether a candidate [start, end) interval may be
// placed alongside the existing bookings for the same date.
//
// A concurrent-enabled service may stack bookings at an identical start
// time with itself; only its trailing buffer window blocks. Every other
// pairing conflicts on any overlap with the occupied interval or on a
// start/end falling inside the buffer window after it. The first blocking
// booking determines the reported conflict and the suggested next start.
func CheckConflict(candidate Interval, existing []BookedInterval, opts ConflictOptions) ConflictResult {
	for _, e := range existing {
		end := e.End()
		bufferEnd := e.BufferEnd(opts.BufferMinutes)

		if opts.AllowConcurrent && e.ServiceName == opts.ServiceName {
			// Same concurrent service: exact stacking is allowed, so
			// time-range overlap is never itself a conflict. Only a
			// buffer violation blocks.
			startsInBuffer := candidate.Start >= end && candidate.Start < bufferEnd
			endsInBuffer := candidate.End > end && candidate.End <= bufferEnd
			if startsInBuffer || endsInBuffer {
				return conflictWith(e, bufferEnd)
			}
			continue
		}

		// The overlap cases in the booking rules (starts inside, ends
		// inside, contains, starts before and extends into) reduce to a
		// single half-open intersection test.
		if candidate.Overlaps(e.Interval()) {
			return conflictWith(e, bufferEnd)
		}

		startsInBuffer := candidate.Start >= end && candidate.Start < bufferEnd
		endsInBuffer := candidate.End > end && candidate.End <= bufferEnd
		if startsInBuffer || endsInBuffer {
			return conflictWith(e, bufferEnd)
		}
	}

	return ConflictResult{}
}

func conflictWith(e BookedInterval, bufferEnd int) ConflictResult {
	return ConflictResult{
		HasConflict:        true,
		ConflictingService: e.ServiceName,
		NextAvailableStart: FormatClock(bufferEnd),
	}
}
