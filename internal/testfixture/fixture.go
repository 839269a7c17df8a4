// Package testfixture holds small shared test helpers for the
// offerqueue, taskgroups and taskscheduler suites: synthetic id
// generation and the handful of collaborator fakes that gomock doesn't
// cover (AttributeAggregator, BackoffStrategy). The teacher's
// gomock-generated collaborators (Driver, Storage, Assigner, Preemptor,
// MaintenanceController, RescheduleCalculator) live in
// scheduling/mocks, generated from scheduling/interfaces.go the same
// way the teacher generates fakes for its resource-manager
// collaborators (hostmgr/offer/offerpool/pool_test.go).
package testfixture

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jasonlai/aurora/scheduling"
)

// NewOfferID returns a synthetic offer id for tests that don't care
// about its literal value.
func NewOfferID() string {
	return "offer-" + uuid.NewString()
}

// NewSlaveID returns a synthetic slave id for tests that don't care
// about its literal value.
func NewSlaveID() string {
	return "slave-" + uuid.NewString()
}

// NewTaskID returns a synthetic task id for tests that don't care about
// its literal value.
func NewTaskID() string {
	return "task-" + uuid.NewString()
}

// Aggregator is a fake scheduling.AttributeAggregator returning an empty
// aggregate for every group unless Err is set. Not mockgen-generated:
// the interface is a single trivial method and every caller needs the
// same canned aggregate, so a gomock expectation per call would only
// add noise.
type Aggregator struct {
	Err error
}

func (a *Aggregator) AggregateFor(_ context.Context, groupKey string) (*scheduling.AttributeAggregate, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return &scheduling.AttributeAggregate{JobKey: groupKey, Counts: map[string]int{}}, nil
}

// FixedBackoff is a scheduling.BackoffStrategy returning a constant
// value, useful for tests that don't exercise backoff growth directly.
type FixedBackoff struct {
	Value time.Duration
}

func (b FixedBackoff) Calculate(time.Duration) time.Duration { return b.Value }
