package taskscheduler

import "go.uber.org/tally"

// Metrics is the placement engine's tally-backed instrumentation. Scope
// is kept alongside the counters so a TallyStatsProvider can register
// gauges (e.g. RESERVATIONS_CACHE_SIZE_STAT, spec §6) under the same
// root as everything else here.
type Metrics struct {
	Scope tally.Scope

	ScheduleSuccess  tally.Counter
	ScheduleTryLater tally.Counter
	LaunchFailed     tally.Counter
	PreemptionsFound tally.Counter
}

// NewMetrics roots a Metrics under the given tally scope.
func NewMetrics(scope tally.Scope) *Metrics {
	s := scope.SubScope("taskscheduler")
	return &Metrics{
		Scope:            s,
		ScheduleSuccess:  s.Counter("schedule_success"),
		ScheduleTryLater: s.Counter("schedule_try_later"),
		LaunchFailed:     s.Counter("launch_failed"),
		PreemptionsFound: s.Counter("preemptions_found"),
	}
}
