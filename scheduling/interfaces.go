package scheduling

// These collaborator interfaces are mocked with mockgen, the same way the
// teacher generates fakes for its resource-manager collaborators
// (hostmgr/offer/offerpool/pool_test.go, jobmgr/task/event/update_test.go).
//go:generate mockgen -source=interfaces.go -destination=mocks/scheduling_mock.go -package=mock_scheduling

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Temporary is implemented by errors that TaskScheduler/TaskGroups should
// treat as retryable (spec §7: "Transient storage fault" -> TRY_LATER)
// rather than fatal.
type Temporary interface {
	Temporary() bool
}

// IsTemporary reports whether err carries the Temporary marker and is set.
func IsTemporary(err error) bool {
	type temporary interface{ Temporary() bool }
	for e := err; e != nil; e = errors.Unwrap(e) {
		if t, ok := e.(temporary); ok {
			return t.Temporary()
		}
	}
	return false
}

// ErrDriverNotReady is returned by Driver.LaunchTask when the resource
// manager driver cannot currently accept launch requests (spec §6). It is
// NOT temporary from TaskScheduler's point of view: a launch failure
// always transitions the task to LOST (spec §7), it is never retried in
// place.
var ErrDriverNotReady = errors.New("driver not ready")

// StorageError wraps a failure from the Storage collaborator. Transient
// faults (lock contention, a dropped connection) should set Transient to
// true so TaskScheduler returns TRY_LATER instead of propagating a fatal
// error (spec §4.3 step 5, §7).
type StorageError struct {
	Transient bool
	Cause     error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Cause.Error()
}

func (e *StorageError) Unwrap() error { return e.Cause }

func (e *StorageError) Temporary() bool { return e.Transient }

// NewTransientStorageError wraps cause as a retryable storage fault.
func NewTransientStorageError(cause error) error {
	return &StorageError{Transient: true, Cause: cause}
}

// Driver is the resource-manager driver: launch/decline RPCs (spec §6).
// Out of scope per spec §1; this is the interface TaskScheduler and
// OfferQueue consume.
type Driver interface {
	// LaunchTask asks the resource manager to launch taskInfo against the
	// named offer. May return ErrDriverNotReady (transient from the
	// resource manager's perspective, but fatal to this attempt: the
	// caller must transition the task to LOST).
	LaunchTask(ctx context.Context, offerID string, taskInfo *TaskInfo) error

	// DeclineOffer is idempotent and fire-and-forget: failures are logged
	// and swallowed by OfferQueue (spec §4.1, §7).
	DeclineOffer(ctx context.Context, offerID string) error
}

// Storage is the mutative transactional task store (spec §6). Out of
// scope per spec §1; this is the subset TaskScheduler needs.
type Storage interface {
	// GetTask reads a task by id. ok is false if the task does not exist.
	GetTask(ctx context.Context, taskID string) (task *Task, ok bool, err error)

	// AssignTask performs, in a single transaction, the PENDING->ASSIGNED
	// transition and the persistence of the chosen slave assignment
	// (spec §4.3 step 3).
	AssignTask(ctx context.Context, taskID, slaveID string, info *TaskInfo) error

	// MarkLost performs the PENDING->LOST transition with the given
	// message (spec §4.3 step 3, §7).
	MarkLost(ctx context.Context, taskID, message string) error

	// PendingTasksByGroup returns the PendingTask view: tasks in the
	// given group with status PENDING, in a stable order (spec §3).
	PendingTasksByGroup(ctx context.Context, groupKey string) ([]*Task, error)
}

// Assigner is the pure (offer, task) -> launch-plan matcher: resource fit
// plus constraint evaluation (spec §6, GLOSSARY). Out of scope per
// spec §1.
type Assigner interface {
	// MaybeAssign returns (info, true) when offer satisfies task's
	// resources and constraints given aggregate, or (nil, false)
	// otherwise. May return a StorageError (or any Temporary error) for a
	// transient fault, which TaskScheduler maps to TRY_LATER.
	MaybeAssign(ctx context.Context, offer *HostOffer, task *Task, aggregate *AttributeAggregate) (*TaskInfo, bool, error)
}

// AttributeAggregator summarizes the running tasks in a group into the
// counts Assigner and Preemptor use to evaluate group-level constraints
// (spec §6, GLOSSARY "Attribute aggregate"). Out of scope per spec §1.
type AttributeAggregator interface {
	AggregateFor(ctx context.Context, groupKey string) (*AttributeAggregate, error)
}

// Preemptor identifies a running task that could be killed to make room
// for a pending one, returning the slave where room would appear (spec
// §6, GLOSSARY). Out of scope per spec §1.
type Preemptor interface {
	FindPreemptionSlotFor(ctx context.Context, taskID string, aggregate *AttributeAggregate) (slaveID string, found bool, err error)
}

// MaintenanceController resolves a host's current maintenance mode (spec
// §6). Out of scope per spec §1.
type MaintenanceController interface {
	GetMode(ctx context.Context, host string) (MaintenanceMode, error)
}

// RescheduleCalculator decides the startup delay for tasks observed
// already PENDING at process start (spec §4.2, §6). Out of scope per
// spec §1.
type RescheduleCalculator interface {
	StartupScheduleDelay(task *Task) time.Duration
}

// BackoffStrategy is the stateless strategy mapping previous penalty (ms)
// to next penalty (ms) (spec §4.2, §6, GLOSSARY).
type BackoffStrategy interface {
	Calculate(previous time.Duration) time.Duration
}

// StatsProvider registers gauges computed on demand (spec §6). Modeled on
// go.uber.org/tally's Scope, but kept as a narrow interface so callers
// can hand in taskscheduler.TallyStatsProvider (which wraps a tally.Scope)
// or a test double; a bare tally.Scope does not implement it.
type StatsProvider interface {
	MakeGauge(name string, supplier func() float64)
}
