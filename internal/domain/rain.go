package domain

// mmToInch converts millimetre collector sizes to the US output unit.
const mmToInch = 0.0393701

// rainCountSize resolves the inches-per-count multiplier for a physical
// rain-collector type. Type 0 is reserved; anything outside 1-4 is unknown
// and reports ok=false so rain fields are skipped for the cycle.
func rainCountSize(collector int) (size float64, ok bool) {
	switch collector {
	case 1:
		return 0.01, true
	case 2:
		return 0.2 * mmToInch, true
	case 3:
		return 0.1, true
	case 4:
		return 0.001 * mmToInch, true
	default:
		return 0, false
	}
}

// StormState carries the rain counter baseline between poll cycles. It lives
// for the process lifetime, is never persisted, and must only be touched by
// one cycle at a time — storm deltas depend on strict cycle ordering.
//
// The zero value means "never observed precipitation data". After the first
// precipitation-capable record, lastTotal and lastStartAt are always set
// together.
type StormState struct {
	lastTotal   float64
	lastStartAt int64
	seen        bool
}

// Observed returns the stored baseline. ok is false until the first
// precipitation-capable record has been processed.
func (s *StormState) Observed() (total float64, startAt int64, ok bool) {
	return s.lastTotal, s.lastStartAt, s.seen
}

// Advance feeds one cycle's cumulative storm counter observation into the
// state and returns the incremental rain since the previous cycle, in raw
// counts:
//
//   - first observation ever: 0 (no baseline — reporting the cumulative
//     total here would over-count the whole storm so far)
//   - startAt changed: the full current total (a new storm began, so its
//     entire accumulation is new)
//   - same storm, counter advanced (or unchanged): the difference
//   - same storm, counter went backwards: 0 (device anomaly; never report
//     negative rain, never guess)
//
// The stored baseline moves to the current observation in every branch, so
// the next cycle always compares against the latest reading.
func (s *StormState) Advance(total float64, startAt int64) float64 {
	var delta float64
	switch {
	case !s.seen:
		delta = 0
	case startAt != s.lastStartAt:
		delta = total
	case total >= s.lastTotal:
		delta = total - s.lastTotal
	default:
		delta = 0
	}

	s.lastTotal = total
	s.lastStartAt = startAt
	s.seen = true
	return delta
}
