// Package taskscheduler implements spec.md §4.3: the placement engine
// that matches a single pending task against the held offers, consulting
// Assigner and Preemptor, and recording the result through Storage and
// the Driver.
//
// Grounded on the teacher's placement/offers/service.go (the
// offer-acquisition loop feeding a task through a matcher) and
// resmgr/task/scheduler_test.go (single-task scheduling attempt
// semantics), adapted from Peloton's resource-manager-driven placement
// to spec §4.3's single Schedule(taskID) entry point.
package taskscheduler

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jasonlai/aurora/offerqueue"
	"github.com/jasonlai/aurora/scheduling"
)

// Config configures a Scheduler.
type Config struct {
	// ReservationStatInterval controls how often the reservation cache
	// size gauge is sampled (spec §6 RESERVATIONS_CACHE_SIZE_STAT).
	ReservationStatInterval time.Duration
}

// DefaultConfig returns the package defaults.
func DefaultConfig() Config {
	return Config{ReservationStatInterval: 5 * time.Second}
}

// Scheduler is the placement engine described in spec §4.3. The zero
// value is not usable; construct with New.
type Scheduler struct {
	offers     *offerqueue.OfferQueue
	storage    scheduling.Storage
	assigner   scheduling.Assigner
	preemptor  scheduling.Preemptor
	aggregator scheduling.AttributeAggregator
	metrics    *Metrics
	stats      *TallyStatsProvider
}

// New constructs a Scheduler and registers its reservation-cache gauge
// through a scheduling.StatsProvider (spec §6 RESERVATIONS_CACHE_SIZE_STAT).
// Call Stop to release the provider's background goroutine.
func New(offers *offerqueue.OfferQueue, storage scheduling.Storage, assigner scheduling.Assigner, preemptor scheduling.Preemptor, aggregator scheduling.AttributeAggregator, metrics *Metrics, config Config) *Scheduler {
	s := &Scheduler{
		offers:     offers,
		storage:    storage,
		assigner:   assigner,
		preemptor:  preemptor,
		aggregator: aggregator,
		metrics:    metrics,
	}
	s.stats = NewTallyStatsProvider(metrics.Scope, config.ReservationStatInterval)
	var statsProvider scheduling.StatsProvider = s.stats
	statsProvider.MakeGauge("reservations_cache_size", func() float64 {
		return float64(offers.ReservationCacheSize())
	})
	return s
}

// Stop releases the Scheduler's background gauge-sampling goroutine.
func (s *Scheduler) Stop() {
	s.stats.Stop()
}

// Schedule runs one placement attempt for taskID (spec §4.3). It is safe
// to call concurrently for different task ids; taskgroups.TaskGroups
// guarantees at most one outstanding call per group at a time, but not
// across groups.
func (s *Scheduler) Schedule(ctx context.Context, taskID string) (scheduling.ScheduleResult, error) {
	task, ok, err := s.storage.GetTask(ctx, taskID)
	if err != nil {
		if scheduling.IsTemporary(err) {
			return scheduling.ResultTryLater, nil
		}
		return 0, err
	}
	if !ok || task.Status != scheduling.StatusPending {
		// Already handled by a concurrent attempt, or deleted since the
		// group was enqueued; nothing to do this round.
		return scheduling.ResultSuccess, nil
	}

	aggregate, err := s.aggregator.AggregateFor(ctx, task.GroupKey())
	if err != nil {
		if scheduling.IsTemporary(err) {
			return scheduling.ResultTryLater, nil
		}
		return 0, err
	}

	launched, err := s.offers.LaunchFirst(ctx, task.ID, func(offer *scheduling.HostOffer) (*scheduling.TaskInfo, bool, error) {
		info, ok, aerr := s.assigner.MaybeAssign(ctx, offer, task, aggregate)
		if aerr != nil {
			return nil, false, aerr
		}
		if !ok {
			return nil, false, nil
		}
		if perr := s.storage.AssignTask(ctx, task.ID, offer.SlaveID, info); perr != nil {
			return nil, false, perr
		}
		return info, true, nil
	})
	if err != nil {
		var launchErr *offerqueue.LaunchError
		if errors.As(err, &launchErr) {
			// spec §4.3 step 3 / §7: a launch RPC failure transitions the
			// task to LOST; the attempt is considered complete, not
			// retried in place.
			s.metrics.LaunchFailed.Inc(1)
			log.WithFields(log.Fields{"task_id": task.ID, "offer_id": launchErr.OfferID, "error": launchErr.Cause}).
				Warn("launch failed, marking task lost")
			if lerr := s.storage.MarkLost(ctx, task.ID, scheduling.LaunchFailedMsg); lerr != nil {
				return 0, lerr
			}
			return scheduling.ResultSuccess, nil
		}
		if scheduling.IsTemporary(err) {
			return scheduling.ResultTryLater, nil
		}
		return 0, err
	}

	if launched {
		s.metrics.ScheduleSuccess.Inc(1)
		return scheduling.ResultSuccess, nil
	}

	// No held offer matched. Ask the preemptor for a slot; a hit records
	// a reservation so this task's later attempts see only that slave's
	// offer, while other tasks still see it alongside every other offer
	// (spec §4.3 step 4, §4.1 "Reservation overlay").
	slaveID, found, perr := s.preemptor.FindPreemptionSlotFor(ctx, task.ID, aggregate)
	if perr != nil {
		if scheduling.IsTemporary(perr) {
			s.metrics.ScheduleTryLater.Inc(1)
			return scheduling.ResultTryLater, nil
		}
		return 0, perr
	}
	if found {
		s.metrics.PreemptionsFound.Inc(1)
		s.offers.RecordReservation(task.ID, slaveID)
	}

	s.metrics.ScheduleTryLater.Inc(1)
	return scheduling.ResultTryLater, nil
}
