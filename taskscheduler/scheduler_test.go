package taskscheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/tally"

	"github.com/jasonlai/aurora/executor"
	"github.com/jasonlai/aurora/internal/testfixture"
	"github.com/jasonlai/aurora/offerqueue"
	"github.com/jasonlai/aurora/scheduling"
	mock_scheduling "github.com/jasonlai/aurora/scheduling/mocks"
	"github.com/jasonlai/aurora/taskscheduler"
)

func longDelayOfferConfig() offerqueue.Config {
	cfg := offerqueue.DefaultConfig()
	cfg.ReturnDelay = func(*scheduling.HostOffer) time.Duration { return time.Hour }
	return cfg
}

func newScheduler(t *testing.T, driver *mock_scheduling.MockDriver, storage *mock_scheduling.MockStorage, assigner *mock_scheduling.MockAssigner, preemptor *mock_scheduling.MockPreemptor, mc *mock_scheduling.MockMaintenanceController) (*taskscheduler.Scheduler, *offerqueue.OfferQueue) {
	t.Helper()
	scope := tally.NewTestScope("", nil)
	mc.EXPECT().GetMode(gomock.Any(), gomock.Any()).Return(scheduling.MaintenanceNone, nil).AnyTimes()
	offers := offerqueue.New(driver, mc, executor.New(), offerqueue.NewMetrics(scope), longDelayOfferConfig())
	sched := taskscheduler.New(offers, storage, assigner, preemptor, &testfixture.Aggregator{}, taskscheduler.NewMetrics(scope), taskscheduler.Config{ReservationStatInterval: time.Hour})
	t.Cleanup(sched.Stop)
	return sched, offers
}

// TaskAssigned (spec §8 scenario 3): a pending task matched against a
// held offer is assigned, launched, and the scheduler reports SUCCESS.
func TestSchedule_TaskAssigned(t *testing.T) {
	task := &scheduling.Task{ID: "task-1", Role: "r", Environment: "e", Job: "j", Status: scheduling.StatusPending}

	ctrl := gomock.NewController(t)
	storage := mock_scheduling.NewMockStorage(ctrl)
	driver := mock_scheduling.NewMockDriver(ctrl)
	assigner := mock_scheduling.NewMockAssigner(ctrl)
	preemptor := mock_scheduling.NewMockPreemptor(ctrl)
	mc := mock_scheduling.NewMockMaintenanceController(ctrl)

	storage.EXPECT().GetTask(gomock.Any(), task.ID).Return(task, true, nil)
	assigner.EXPECT().MaybeAssign(gomock.Any(), gomock.Any(), task, gomock.Any()).
		DoAndReturn(func(_ context.Context, offer *scheduling.HostOffer, task *scheduling.Task, _ *scheduling.AttributeAggregate) (*scheduling.TaskInfo, bool, error) {
			return &scheduling.TaskInfo{TaskID: task.ID, OfferID: offer.OfferID, SlaveID: offer.SlaveID}, true, nil
		})
	storage.EXPECT().AssignTask(gomock.Any(), task.ID, "slave-1", gomock.Any()).
		DoAndReturn(func(context.Context, string, string, *scheduling.TaskInfo) error {
			task.Status = scheduling.StatusAssigned
			return nil
		})
	driver.EXPECT().LaunchTask(gomock.Any(), "offer-1", gomock.Any()).Return(nil)

	sched, offers := newScheduler(t, driver, storage, assigner, preemptor, mc)
	require.NoError(t, offers.AddOffer(context.Background(), "host-1", "slave-1", "offer-1", nil))

	result, err := sched.Schedule(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ResultSuccess, result)
	assert.Equal(t, scheduling.StatusAssigned, task.Status)
}

// No held offers and no preemption slot: the scheduler reports TRY_LATER
// without error (spec §8 scenario 2's placement-side counterpart).
func TestSchedule_NoOffersTriesLater(t *testing.T) {
	task := &scheduling.Task{ID: "task-1", Role: "r", Environment: "e", Job: "j", Status: scheduling.StatusPending}

	ctrl := gomock.NewController(t)
	storage := mock_scheduling.NewMockStorage(ctrl)
	driver := mock_scheduling.NewMockDriver(ctrl)
	assigner := mock_scheduling.NewMockAssigner(ctrl)
	preemptor := mock_scheduling.NewMockPreemptor(ctrl)
	mc := mock_scheduling.NewMockMaintenanceController(ctrl)

	storage.EXPECT().GetTask(gomock.Any(), task.ID).Return(task, true, nil)
	preemptor.EXPECT().FindPreemptionSlotFor(gomock.Any(), task.ID, gomock.Any()).Return("", false, nil)

	sched, _ := newScheduler(t, driver, storage, assigner, preemptor, mc)

	result, err := sched.Schedule(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ResultTryLater, result)
}

// A preemption hit records a reservation on the offer queue rather than
// launching immediately.
func TestSchedule_PreemptionRecordsReservation(t *testing.T) {
	task := &scheduling.Task{ID: "task-1", Role: "r", Environment: "e", Job: "j", Status: scheduling.StatusPending}

	ctrl := gomock.NewController(t)
	storage := mock_scheduling.NewMockStorage(ctrl)
	driver := mock_scheduling.NewMockDriver(ctrl)
	assigner := mock_scheduling.NewMockAssigner(ctrl)
	preemptor := mock_scheduling.NewMockPreemptor(ctrl)
	mc := mock_scheduling.NewMockMaintenanceController(ctrl)

	storage.EXPECT().GetTask(gomock.Any(), task.ID).Return(task, true, nil)
	assigner.EXPECT().MaybeAssign(gomock.Any(), gomock.Any(), task, gomock.Any()).Return(nil, false, nil)
	preemptor.EXPECT().FindPreemptionSlotFor(gomock.Any(), task.ID, gomock.Any()).Return("slave-victim", true, nil)

	sched, offers := newScheduler(t, driver, storage, assigner, preemptor, mc)
	require.NoError(t, offers.AddOffer(context.Background(), "host-1", "slave-1", "offer-1", nil))

	result, err := sched.Schedule(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ResultTryLater, result)
	assert.Equal(t, 1, offers.ReservationCacheSize())
}

// DriverNotReady (spec §8 scenario 4): a launch failure marks the task
// LOST and the attempt is reported as done (SUCCESS), not retried.
func TestSchedule_DriverNotReadyMarksLost(t *testing.T) {
	task := &scheduling.Task{ID: "task-1", Role: "r", Environment: "e", Job: "j", Status: scheduling.StatusPending}

	ctrl := gomock.NewController(t)
	storage := mock_scheduling.NewMockStorage(ctrl)
	driver := mock_scheduling.NewMockDriver(ctrl)
	assigner := mock_scheduling.NewMockAssigner(ctrl)
	preemptor := mock_scheduling.NewMockPreemptor(ctrl)
	mc := mock_scheduling.NewMockMaintenanceController(ctrl)

	storage.EXPECT().GetTask(gomock.Any(), task.ID).Return(task, true, nil)
	assigner.EXPECT().MaybeAssign(gomock.Any(), gomock.Any(), task, gomock.Any()).
		Return(&scheduling.TaskInfo{TaskID: task.ID}, true, nil)
	storage.EXPECT().AssignTask(gomock.Any(), task.ID, "slave-1", gomock.Any()).Return(nil)
	driver.EXPECT().LaunchTask(gomock.Any(), "offer-1", gomock.Any()).Return(scheduling.ErrDriverNotReady)
	storage.EXPECT().MarkLost(gomock.Any(), task.ID, scheduling.LaunchFailedMsg).
		DoAndReturn(func(context.Context, string, string) error {
			task.Status = scheduling.StatusLost
			return nil
		})

	sched, offers := newScheduler(t, driver, storage, assigner, preemptor, mc)
	require.NoError(t, offers.AddOffer(context.Background(), "host-1", "slave-1", "offer-1", nil))

	result, err := sched.Schedule(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ResultSuccess, result)
	assert.Equal(t, scheduling.StatusLost, task.Status)
}

// A task already resolved by a concurrent attempt (not PENDING any more)
// is reported as trivially done.
func TestSchedule_AlreadyResolvedIsNoop(t *testing.T) {
	task := &scheduling.Task{ID: "task-1", Role: "r", Environment: "e", Job: "j", Status: scheduling.StatusAssigned}

	ctrl := gomock.NewController(t)
	storage := mock_scheduling.NewMockStorage(ctrl)
	driver := mock_scheduling.NewMockDriver(ctrl)
	assigner := mock_scheduling.NewMockAssigner(ctrl)
	preemptor := mock_scheduling.NewMockPreemptor(ctrl)
	mc := mock_scheduling.NewMockMaintenanceController(ctrl)

	storage.EXPECT().GetTask(gomock.Any(), task.ID).Return(task, true, nil)

	sched, _ := newScheduler(t, driver, storage, assigner, preemptor, mc)

	result, err := sched.Schedule(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ResultSuccess, result)
}

// A transient storage fault on the assigner maps to TRY_LATER rather
// than a fatal error (spec §7).
func TestSchedule_TransientStorageFaultTriesLater(t *testing.T) {
	task := &scheduling.Task{ID: "task-1", Role: "r", Environment: "e", Job: "j", Status: scheduling.StatusPending}

	ctrl := gomock.NewController(t)
	storage := mock_scheduling.NewMockStorage(ctrl)
	driver := mock_scheduling.NewMockDriver(ctrl)
	assigner := mock_scheduling.NewMockAssigner(ctrl)
	preemptor := mock_scheduling.NewMockPreemptor(ctrl)
	mc := mock_scheduling.NewMockMaintenanceController(ctrl)

	storage.EXPECT().GetTask(gomock.Any(), task.ID).Return(task, true, nil)
	assigner.EXPECT().MaybeAssign(gomock.Any(), gomock.Any(), task, gomock.Any()).
		Return(nil, false, scheduling.NewTransientStorageError(assertErr))

	sched, offers := newScheduler(t, driver, storage, assigner, preemptor, mc)
	require.NoError(t, offers.AddOffer(context.Background(), "host-1", "slave-1", "offer-1", nil))

	result, err := sched.Schedule(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduling.ResultTryLater, result)
}

var assertErr = assertError("transient assigner fault")

type assertError string

func (e assertError) Error() string { return string(e) }
