// Package scheduling holds the domain types shared by the offerqueue,
// taskgroups and taskscheduler packages: offers, tasks, reservations and
// the enums that describe their lifecycle.
package scheduling

import "time"

// MaintenanceMode is the lifecycle tag the maintenance controller attaches
// to a host. Lower values are preferred by the offer queue.
type MaintenanceMode int

const (
	// MaintenanceNone means the host is fully schedulable.
	MaintenanceNone MaintenanceMode = iota
	// MaintenanceScheduled means the host has a maintenance window coming
	// up but is still schedulable today.
	MaintenanceScheduled
	// MaintenanceDraining means the host is being emptied of tasks.
	MaintenanceDraining
	// MaintenanceDrained means the host has finished draining.
	MaintenanceDrained
)

// String implements fmt.Stringer.
func (m MaintenanceMode) String() string {
	switch m {
	case MaintenanceNone:
		return "NONE"
	case MaintenanceScheduled:
		return "SCHEDULED"
	case MaintenanceDraining:
		return "DRAINING"
	case MaintenanceDrained:
		return "DRAINED"
	default:
		return "UNKNOWN"
	}
}

// Before reports whether m is strictly preferred over other, i.e. whether
// offers tagged m should be visited ahead of offers tagged other.
func (m MaintenanceMode) Before(other MaintenanceMode) bool {
	return m < other
}

// HostOffer is a resource offer from a single slave, tagged with the
// current maintenance mode of the host it came from. See spec §3.
type HostOffer struct {
	OfferID    string
	HostID     string
	SlaveID    string
	Resources  interface{} // opaque to the core; interpreted only by Assigner
	Mode       MaintenanceMode
	ReceivedAt time.Time
}

// TaskStatus is the subset of the task state machine this core observes
// and drives (spec §4.3):
//
//	INIT -> PENDING -> ASSIGNED -> (external) RUNNING/FINISHED/KILLED
//	              \-> LOST (on launch failure)
type TaskStatus int

const (
	StatusInit TaskStatus = iota
	StatusPending
	StatusAssigned
	StatusRunning
	StatusFinished
	StatusKilled
	StatusLost
)

func (s TaskStatus) String() string {
	switch s {
	case StatusInit:
		return "INIT"
	case StatusPending:
		return "PENDING"
	case StatusAssigned:
		return "ASSIGNED"
	case StatusRunning:
		return "RUNNING"
	case StatusFinished:
		return "FINISHED"
	case StatusKilled:
		return "KILLED"
	case StatusLost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// LaunchFailedMsg is the message recorded when a task is transitioned to
// LOST because the driver failed to launch it (spec §4.3, §7).
const LaunchFailedMsg = "launch failed: driver rejected launchTask"

// Task is the subset of task state the scheduling core needs: enough to
// compute a group key, to build an AttributeAggregate, and to drive the
// PENDING->ASSIGNED/LOST transitions.
type Task struct {
	ID            string
	Role          string
	Environment   string
	Job           string
	Status        TaskStatus
	Constraints   interface{} // opaque to the core; interpreted only by Assigner
	ResourceShape interface{} // opaque to the core; interpreted only by Assigner
}

// GroupKey derives the TaskGroup equivalence class for a task: tasks that
// share role/environment/job and resource/constraint shape are
// interchangeable for scheduling purposes (spec §3, TaskGroup).
func (t *Task) GroupKey() string {
	return t.Role + "/" + t.Environment + "/" + t.Job
}

// TaskInfo is the launch-plan payload the Assigner produces for a
// (offer, task) match and the Driver consumes to launch it.
type TaskInfo struct {
	TaskID  string
	OfferID string
	SlaveID string
	Payload interface{} // opaque to the core; interpreted only by the driver
}

// Reservation is a soft binding of a pending task to a specific slave for
// a bounded time, produced by the Preemptor (spec §3).
type Reservation struct {
	TaskID   string
	SlaveID  string
	ExpireAt time.Time
}

// Expired reports whether the reservation is no longer valid at `now`.
func (r *Reservation) Expired(now time.Time) bool {
	return !now.Before(r.ExpireAt)
}

// AttributeAggregate summarizes other running tasks of the same job, used
// by the Assigner for anti-affinity and similar constraints (spec §4.3
// step 2). The core never looks inside it.
type AttributeAggregate struct {
	JobKey string
	Counts map[string]int // e.g. host -> count of running instances
}

// ScheduleResult is the outcome of one TaskScheduler.Schedule attempt.
type ScheduleResult int

const (
	// ResultSuccess means the task was either placed, dropped (no longer
	// pending), or transitioned to LOST after a launch failure. In every
	// case TaskGroups should not retry this task itself.
	ResultSuccess ScheduleResult = iota
	// ResultTryLater means no offer matched and/or a transient fault was
	// hit; TaskGroups should retry the group after backoff.
	ResultTryLater
)

func (r ScheduleResult) String() string {
	if r == ResultSuccess {
		return "SUCCESS"
	}
	return "TRY_LATER"
}
