package scheduling

// Transition is delivered when a task moves from one status to its
// current one. It is the "transition" flavor of TaskStateChange (spec §6).
type Transition struct {
	Task *Task
	From TaskStatus
}

// Initialized is delivered for tasks observed already in their current
// status at process startup — the "initialized" flavor of
// TaskStateChange (spec §6), used to distinguish a cold-start PENDING
// task (which uses RescheduleCalculator.startupScheduleDelay) from one
// that just transitioned into PENDING live (which uses
// firstScheduleDelay).
type Initialized struct {
	Task *Task
}

// TasksDeleted carries the set of task ids removed from storage. Handlers
// must treat redelivery of the same set as a no-op (spec §8, R2).
type TasksDeleted struct {
	TaskIDs []string
}

// HostMaintenanceStateChange is delivered when a host's maintenance mode
// changes.
type HostMaintenanceStateChange struct {
	Host string
	Mode MaintenanceMode
}
