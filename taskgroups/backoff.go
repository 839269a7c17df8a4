package taskgroups

import (
	"time"

	"github.com/jasonlai/aurora/scheduling"
)

// TruncatedExponentialBackoff is the default scheduling.BackoffStrategy:
// each retry multiplies the previous penalty by factor, capped at max.
// With the defaults below, backoff(1ms) = 10ms, matching spec §8
// scenario 2/3 ("backoff(1)=10").
type TruncatedExponentialBackoff struct {
	Factor time.Duration
	Max    time.Duration
}

// NewTruncatedExponentialBackoff returns the package default: 10x growth
// per attempt, capped at 1 minute.
func NewTruncatedExponentialBackoff() *TruncatedExponentialBackoff {
	return &TruncatedExponentialBackoff{Factor: 10, Max: time.Minute}
}

// Calculate implements scheduling.BackoffStrategy.
func (b *TruncatedExponentialBackoff) Calculate(previous time.Duration) time.Duration {
	if previous <= 0 {
		previous = time.Millisecond
	}
	next := previous * b.Factor
	if next > b.Max || next <= 0 {
		return b.Max
	}
	return next
}

var _ scheduling.BackoffStrategy = (*TruncatedExponentialBackoff)(nil)
