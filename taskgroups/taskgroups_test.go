package taskgroups_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/tally"
	"golang.org/x/time/rate"

	"github.com/jasonlai/aurora/executor"
	"github.com/jasonlai/aurora/scheduling"
	"github.com/jasonlai/aurora/taskgroups"
)

type zeroDelayReschedule struct{}

func (zeroDelayReschedule) StartupScheduleDelay(*scheduling.Task) time.Duration { return 0 }

func newTaskGroups(storage scheduling.Storage, schedule taskgroups.ScheduleFunc, cfg taskgroups.Config) *taskgroups.TaskGroups {
	scope := tally.NewTestScope("", nil)
	return taskgroups.New(storage, zeroDelayReschedule{}, taskgroupsBackoff(), executor.New(), schedule, taskgroups.NewMetrics(scope), cfg)
}

// taskgroupsBackoff returns the package default backoff (10ms after the
// first 1ms attempt, per spec §8 scenario 2/3 "backoff(1)=10").
func taskgroupsBackoff() *taskgroups.TruncatedExponentialBackoff {
	return taskgroups.NewTruncatedExponentialBackoff()
}

func fastConfig() taskgroups.Config {
	return taskgroups.Config{
		FirstScheduleDelay: time.Millisecond,
		RateLimit:          rate.Inf,
		Burst:              1,
	}
}

func pendingTask(id, job string) *scheduling.Task {
	return &scheduling.Task{ID: id, Role: "role", Environment: "env", Job: job, Status: scheduling.StatusPending}
}

// TaskGroupsSuite mirrors the teacher's suite-driven resmgr/task test
// style (resmgr/task/scheduler_test.go), grouping the attempt-loop
// scenarios under one fixture.
type TaskGroupsSuite struct {
	suite.Suite
}

func TestTaskGroupsSuite(t *testing.T) {
	suite.Run(t, new(TaskGroupsSuite))
}

// NoOffers (spec §8 scenario 2): a group whose attempts always return
// TRY_LATER keeps retrying with growing backoff.
func (s *TaskGroupsSuite) TestTaskChangedState_RetriesOnTryLater() {
	task := pendingTask("task-1", "job-a")
	storage := fakeStorage{tasks: []*scheduling.Task{task}}

	var mu sync.Mutex
	attempts := 0
	schedule := func(_ context.Context, taskID string) (scheduling.ScheduleResult, error) {
		mu.Lock()
		attempts++
		mu.Unlock()
		return scheduling.ResultTryLater, nil
	}

	g := newTaskGroups(storage, schedule, fastConfig())
	g.TaskChangedState(&scheduling.Transition{Task: task, From: scheduling.StatusInit})

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts >= 3
	}, time.Second, time.Millisecond)
}

// TaskAssigned: a single pending task scheduled successfully results in
// exactly one scheduling attempt for that group.
func (s *TaskGroupsSuite) TestTaskChangedState_SchedulesOnce() {
	task := pendingTask("task-1", "job-a")
	storage := fakeStorage{tasks: []*scheduling.Task{task}}

	var mu sync.Mutex
	attempts := 0
	schedule := func(_ context.Context, taskID string) (scheduling.ScheduleResult, error) {
		mu.Lock()
		attempts++
		mu.Unlock()
		task.Status = scheduling.StatusAssigned
		return scheduling.ResultSuccess, nil
	}

	g := newTaskGroups(storage, schedule, fastConfig())
	g.TaskChangedState(&scheduling.Transition{Task: task, From: scheduling.StatusInit})

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts == 1
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	s.Equal(1, attempts)
}

// ResistsStarvation (spec §8 scenario 8): with several pending tasks in
// one group, each SUCCESS immediately schedules the next attempt instead
// of waiting out a backoff penalty.
func (s *TaskGroupsSuite) TestTaskChangedState_ResistsStarvation() {
	tasks := []*scheduling.Task{
		pendingTask("task-1", "job-a"),
		pendingTask("task-2", "job-a"),
		pendingTask("task-3", "job-a"),
	}
	storage := fakeStorage{tasks: tasks}

	var mu sync.Mutex
	scheduledIDs := map[string]bool{}
	schedule := func(_ context.Context, taskID string) (scheduling.ScheduleResult, error) {
		mu.Lock()
		defer mu.Unlock()
		scheduledIDs[taskID] = true
		for _, tk := range tasks {
			if tk.ID == taskID {
				tk.Status = scheduling.StatusAssigned
			}
		}
		return scheduling.ResultSuccess, nil
	}

	g := newTaskGroups(storage, schedule, fastConfig())
	g.TaskChangedState(&scheduling.Transition{Task: tasks[0], From: scheduling.StatusInit})

	s.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(scheduledIDs) == 3
	}, time.Second, time.Millisecond)
}

// Rapid repeated TaskChangedState calls for the same group never arm more
// than one outstanding attempt timer (invariant G1).
func (s *TaskGroupsSuite) TestTaskChangedState_SingleOutstandingAttempt() {
	task := pendingTask("task-1", "job-a")
	storage := fakeStorage{tasks: []*scheduling.Task{task}}

	var mu sync.Mutex
	attempts := 0
	block := make(chan struct{})
	schedule := func(_ context.Context, taskID string) (scheduling.ScheduleResult, error) {
		mu.Lock()
		attempts++
		mu.Unlock()
		<-block
		return scheduling.ResultTryLater, nil
	}

	g := newTaskGroups(storage, schedule, fastConfig())
	for i := 0; i < 5; i++ {
		g.TaskChangedState(&scheduling.Transition{Task: task, From: scheduling.StatusInit})
	}

	// While the first attempt is still blocked, no second attempt may have
	// started.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	s.Equal(1, attempts)
	mu.Unlock()
	close(block)

	// Once unblocked, TRY_LATER arms exactly one backoff retry: it runs
	// 10ms later, and the one after that waits a further 100ms.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	s.Equal(2, attempts)
}

// A group drained of pending tasks is collected: its snapshot entry goes
// away rather than lingering in an idle state (spec §3 "a group with no
// members is collected").
func (s *TaskGroupsSuite) TestTaskChangedState_CollectsEmptyGroup() {
	task := pendingTask("task-1", "job-a")
	storage := fakeStorage{}

	schedule := func(_ context.Context, taskID string) (scheduling.ScheduleResult, error) {
		return scheduling.ResultSuccess, nil
	}

	g := newTaskGroups(storage, schedule, fastConfig())
	g.TaskChangedState(&scheduling.Transition{Task: task, From: scheduling.StatusInit})

	s.Eventually(func() bool {
		return len(g.Snapshot()) == 0
	}, time.Second, time.Millisecond)
}

// TasksDeleted and Reconcile accept their event-DTO batches without
// panicking; Reconcile of a still-PENDING task creates its group and arms
// an attempt for it.
func (s *TaskGroupsSuite) TestTasksDeletedAndReconcile() {
	task := pendingTask("task-1", "job-a")
	storage := fakeStorage{tasks: []*scheduling.Task{task}}
	schedule := func(_ context.Context, taskID string) (scheduling.ScheduleResult, error) {
		return scheduling.ResultSuccess, nil
	}

	g := newTaskGroups(storage, schedule, fastConfig())
	g.TasksDeleted(&scheduling.TasksDeleted{TaskIDs: []string{task.ID}})
	g.Reconcile([]*scheduling.Initialized{{Task: task}})

	s.Eventually(func() bool {
		return len(g.Snapshot()) == 1
	}, time.Second, time.Millisecond)
}

type fakeStorage struct {
	tasks []*scheduling.Task
}

func (s fakeStorage) GetTask(_ context.Context, taskID string) (*scheduling.Task, bool, error) {
	for _, t := range s.tasks {
		if t.ID == taskID {
			return t, true, nil
		}
	}
	return nil, false, nil
}

func (s fakeStorage) AssignTask(context.Context, string, string, *scheduling.TaskInfo) error { return nil }

func (s fakeStorage) MarkLost(context.Context, string, string) error { return nil }

func (s fakeStorage) PendingTasksByGroup(_ context.Context, groupKey string) ([]*scheduling.Task, error) {
	var out []*scheduling.Task
	for _, t := range s.tasks {
		if t.Status == scheduling.StatusPending && t.GroupKey() == groupKey {
			out = append(out, t)
		}
	}
	return out, nil
}
