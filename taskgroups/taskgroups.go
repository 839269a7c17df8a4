// Package taskgroups implements spec.md §4.2: per-group scheduling
// attempt loops, each rate-limited and backed off independently, with
// exactly one outstanding retry per group (invariant G1).
//
// The design follows the teacher's resmgr/task scheduler
// (resmgr/task/scheduler_test.go, tracker_test.go): a single in-flight
// "pending attempt" flag per logical bucket, an AfterFunc-driven retry
// instead of a polling loop, and backoff state that resets on success.
// Where the teacher gates on resource-manager admission, this package
// gates on a shared golang.org/x/time/rate limiter (spec §4.2
// "rateLimit") before ever invoking the scheduling attempt.
package taskgroups

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jasonlai/aurora/executor"
	"github.com/jasonlai/aurora/scheduling"
)

// ScheduleFunc is the single-task scheduling attempt, implemented by
// taskscheduler.Scheduler.Schedule. Kept as a function type so taskgroups
// has no import-time dependency on the taskscheduler package.
type ScheduleFunc func(ctx context.Context, taskID string) (scheduling.ScheduleResult, error)

// Config configures a TaskGroups.
type Config struct {
	// FirstScheduleDelay is the delay before a group's very first attempt
	// after a task enters PENDING (spec §6 firstScheduleDelay, default
	// 1ms, spec §8 scenario 1).
	FirstScheduleDelay time.Duration

	// RateLimit bounds the aggregate rate of scheduling attempts across
	// all groups (spec §6 rateLimit, default 100/s).
	RateLimit rate.Limit
	Burst     int
}

// DefaultConfig returns spec.md §6's defaults.
func DefaultConfig() Config {
	return Config{
		FirstScheduleDelay: time.Millisecond,
		RateLimit:          100,
		Burst:              1,
	}
}

type group struct {
	mu      sync.Mutex
	pending bool
	handle  executor.Handle
	penalty time.Duration
}

// TaskGroups drives one attempt loop per group key (spec §3 "Task group":
// role/environment/job), gated by a shared rate limiter and backed off
// independently per group.
type TaskGroups struct {
	mu     sync.Mutex
	groups map[string]*group

	limiter    *rate.Limiter
	backoff    scheduling.BackoffStrategy
	exec       *executor.Executor
	storage    scheduling.Storage
	reschedule scheduling.RescheduleCalculator
	schedule   ScheduleFunc
	metrics    *Metrics
	config     Config
}

// New constructs a TaskGroups. schedule is the single-task scheduling
// attempt (wired to taskscheduler.Scheduler.Schedule by the caller).
func New(storage scheduling.Storage, reschedule scheduling.RescheduleCalculator, backoff scheduling.BackoffStrategy, exec *executor.Executor, schedule ScheduleFunc, metrics *Metrics, config Config) *TaskGroups {
	if config.FirstScheduleDelay <= 0 {
		config.FirstScheduleDelay = time.Millisecond
	}
	if config.RateLimit <= 0 {
		config.RateLimit = DefaultConfig().RateLimit
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	return &TaskGroups{
		groups:     make(map[string]*group),
		limiter:    rate.NewLimiter(config.RateLimit, config.Burst),
		backoff:    backoff,
		exec:       exec,
		storage:    storage,
		reschedule: reschedule,
		schedule:   schedule,
		metrics:    metrics,
		config:     config,
	}
}

// TaskChangedState is the inbound event sink for scheduling.Transition
// (spec §4.2). When event.Task newly enters PENDING, the task's group is
// ensured to have an outstanding scheduling attempt (invariant G1).
func (g *TaskGroups) TaskChangedState(event *scheduling.Transition) {
	if event.Task.Status != scheduling.StatusPending {
		return
	}
	g.ensureScheduled(event.Task.GroupKey(), g.config.FirstScheduleDelay)
}

// TasksDeleted is the inbound event sink for scheduling.TasksDeleted
// (spec §4.2). Deleted tasks simply stop appearing in
// Storage.PendingTasksByGroup; no group bookkeeping is required here.
func (g *TaskGroups) TasksDeleted(event *scheduling.TasksDeleted) {
	log.WithField("count", len(event.TaskIDs)).Debug("tasks deleted")
}

// Reconcile schedules a startup attempt for each already-PENDING task
// observed at process start, using RescheduleCalculator for the initial
// delay instead of FirstScheduleDelay (spec §4.2 "On startup").
func (g *TaskGroups) Reconcile(events []*scheduling.Initialized) {
	for _, event := range events {
		if event.Task.Status != scheduling.StatusPending {
			continue
		}
		g.ensureScheduled(event.Task.GroupKey(), g.reschedule.StartupScheduleDelay(event.Task))
	}
}

// GroupSnapshot is a debug view of one group's attempt-loop state.
type GroupSnapshot struct {
	GroupKey string
	Pending  bool
	Penalty  time.Duration
}

// Snapshot returns a debug view of every known group's attempt-loop
// state, for operational introspection (not consulted by the attempt
// loop itself). Modeled on itskum47-FluxForge's
// Scheduler.GetSnapshot()/GetMetrics().
func (g *TaskGroups) Snapshot() []GroupSnapshot {
	g.mu.Lock()
	keys := make([]string, 0, len(g.groups))
	grps := make([]*group, 0, len(g.groups))
	for k, grp := range g.groups {
		keys = append(keys, k)
		grps = append(grps, grp)
	}
	g.mu.Unlock()

	out := make([]GroupSnapshot, len(keys))
	for i, k := range keys {
		grps[i].mu.Lock()
		out[i] = GroupSnapshot{GroupKey: k, Pending: grps[i].pending, Penalty: grps[i].penalty}
		grps[i].mu.Unlock()
	}
	return out
}

// ensureScheduled arms groupKey's retry timer if none is outstanding
// (invariant G1: at most one scheduled attempt per group at a time).
func (g *TaskGroups) ensureScheduled(groupKey string, delay time.Duration) {
	grp := g.groupFor(groupKey)

	grp.mu.Lock()
	if grp.pending {
		grp.mu.Unlock()
		return
	}
	grp.pending = true
	grp.mu.Unlock()

	grp.handle = g.exec.Schedule(delay, func() { g.attempt(groupKey) })
}

func (g *TaskGroups) groupFor(groupKey string) *group {
	g.mu.Lock()
	defer g.mu.Unlock()
	grp, ok := g.groups[groupKey]
	if !ok {
		grp = &group{}
		g.groups[groupKey] = grp
		g.metrics.ActiveGroups.Update(float64(len(g.groups)))
	}
	return grp
}

// attempt is the body of a group's scheduling attempt: wait for a rate
// limiter token, pull the group's first pending task, and run a single
// scheduling attempt against it (spec §4.2).
func (g *TaskGroups) attempt(groupKey string) {
	ctx := context.Background()
	grp := g.groupFor(groupKey)

	if err := g.limiter.Wait(ctx); err != nil {
		g.rescheduleWithBackoff(groupKey, grp)
		return
	}

	g.metrics.AttemptsStarted.Inc(1)

	tasks, err := g.storage.PendingTasksByGroup(ctx, groupKey)
	if err != nil {
		if scheduling.IsTemporary(err) {
			g.rescheduleWithBackoff(groupKey, grp)
			return
		}
		log.WithFields(log.Fields{"group": groupKey, "error": err}).
			Error("fatal error listing pending tasks, group attempt abandoned")
		g.clearPending(grp)
		return
	}
	if len(tasks) == 0 {
		// No pending tasks left in this group: it has no members, so the
		// group itself is collected rather than merely marked idle
		// (invariant G1).
		g.collectGroup(groupKey, grp)
		return
	}

	task := tasks[0]
	result, err := g.schedule(ctx, task.ID)
	if err != nil {
		g.metrics.AttemptsFatal.Inc(1)
		log.WithFields(log.Fields{"group": groupKey, "task_id": task.ID, "error": err}).
			Error("fatal error scheduling task, group attempt abandoned")
		g.clearPending(grp)
		return
	}

	switch result {
	case scheduling.ResultSuccess:
		g.metrics.AttemptsSuccess.Inc(1)
		g.resetPenalty(grp)
		if len(tasks) > 1 {
			// Resist starvation (spec §8 scenario 8): with more than one
			// pending task in the group, the next attempt is scheduled
			// immediately rather than waiting out a backoff penalty that
			// only applies to TRY_LATER outcomes.
			grp.handle = g.exec.Schedule(0, func() { g.attempt(groupKey) })
			return
		}
		g.clearPending(grp)
	case scheduling.ResultTryLater:
		g.metrics.AttemptsTryLater.Inc(1)
		g.rescheduleWithBackoff(groupKey, grp)
	}
}

func (g *TaskGroups) rescheduleWithBackoff(groupKey string, grp *group) {
	grp.mu.Lock()
	grp.penalty = g.backoff.Calculate(grp.penalty)
	delay := grp.penalty
	grp.mu.Unlock()

	grp.handle = g.exec.Schedule(delay, func() { g.attempt(groupKey) })
}

func (g *TaskGroups) resetPenalty(grp *group) {
	grp.mu.Lock()
	grp.penalty = 0
	grp.mu.Unlock()
}

func (g *TaskGroups) clearPending(grp *group) {
	grp.mu.Lock()
	grp.pending = false
	if grp.handle != nil {
		grp.handle.Cancel()
	}
	grp.mu.Unlock()
}

// collectGroup retires a group that has no pending members left (spec §3
// "a group with no members is collected"): it cancels any outstanding
// retry timer and removes the group from g.groups, so a later
// TaskChangedState for the same key starts a fresh group rather than
// resuming stale backoff state.
func (g *TaskGroups) collectGroup(groupKey string, grp *group) {
	grp.mu.Lock()
	grp.pending = false
	if grp.handle != nil {
		grp.handle.Cancel()
	}
	grp.mu.Unlock()

	g.mu.Lock()
	delete(g.groups, groupKey)
	g.metrics.ActiveGroups.Update(float64(len(g.groups)))
	g.mu.Unlock()
}
