package taskgroups

import "go.uber.org/tally"

// Metrics is taskgroups' tally-backed instrumentation, rooted under its
// own subscope per the teacher's NewMetrics(scope) convention.
type Metrics struct {
	AttemptsStarted  tally.Counter
	AttemptsSuccess  tally.Counter
	AttemptsTryLater tally.Counter
	AttemptsFatal    tally.Counter
	ActiveGroups     tally.Gauge
}

// NewMetrics roots a Metrics under the given tally scope.
func NewMetrics(scope tally.Scope) *Metrics {
	s := scope.SubScope("taskgroups")
	return &Metrics{
		AttemptsStarted:  s.Counter("attempts_started"),
		AttemptsSuccess:  s.Counter("attempts_success"),
		AttemptsTryLater: s.Counter("attempts_try_later"),
		AttemptsFatal:    s.Counter("attempts_fatal"),
		ActiveGroups:     s.Gauge("active_groups"),
	}
}
