package publisher

import "time"

// linearBackOff grows the delay by one base unit per failed attempt:
// base, 2*base, 3*base, ... It implements backoff.BackOff.
type linearBackOff struct {
	base time.Duration
	n    int
}

// NextBackOff returns the delay before the next attempt.
func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.base
}

// Reset restarts the progression.
func (b *linearBackOff) Reset() { b.n = 0 }
