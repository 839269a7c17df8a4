// Package offerqueue implements spec.md §4.1: a holding area for
// outstanding resource offers, ordered by host maintenance preference,
// with per-offer expiration and a reservation overlay.
//
// The design follows the teacher's offerPool
// (hostmgr/offer/offerpool/pool.go): a single mutex guarding a map keyed
// by slave id (invariant O1), counters updated alongside the map instead
// of recomputed, and a timed-offer side table used to drive expiry. Where
// the teacher relies on Mesos's own offer_timeout as a backstop for a
// failed decline RPC, this module uses the cancellable timer primitive in
// package executor (spec §5, §9 "Timers + handles").
package offerqueue

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/jasonlai/aurora/executor"
	"github.com/jasonlai/aurora/scheduling"
)

// LaunchError reports that an offer was consumed and then driver.LaunchTask
// failed for it (spec §4.3 step 3, §7): the caller must transition the
// task to LOST rather than retry it in place or treat the fault as
// transient.
type LaunchError struct {
	OfferID string
	Cause   error
}

func (e *LaunchError) Error() string {
	return "launch failed for offer " + e.OfferID + ": " + e.Cause.Error()
}

func (e *LaunchError) Unwrap() error { return e.Cause }

// Acceptor is offered each held HostOffer in preference order by
// LaunchFirst. Returning (info, true, nil) consumes the offer. Returning
// (nil, false, err) with a non-nil err aborts the walk and the offer is
// left in place (spec §4.1).
type Acceptor func(offer *scheduling.HostOffer) (info *scheduling.TaskInfo, ok bool, err error)

// ReturnDelayFunc supplies the per-offer hold duration, allowing jitter
// (spec §4.1 "The return delay is queried per offer").
type ReturnDelayFunc func(offer *scheduling.HostOffer) time.Duration

// Config configures an OfferQueue.
type Config struct {
	// ReturnDelay is queried once per offer at AddOffer time.
	ReturnDelay ReturnDelayFunc

	// ReservationDuration bounds how long a preemptor-issued reservation
	// is honored (spec §6 reservationDuration, default 1 minute).
	ReservationDuration time.Duration

	// DrainedForcesDecline controls hostChangedState's behavior on a
	// transition to DRAINED. Default (false) re-sorts only, per the
	// open question in spec §9 defaulting to the observed test
	// behavior; set true to evict DRAINED offers immediately instead.
	DrainedForcesDecline bool
}

// DefaultConfig returns sane defaults: a fixed 10ms return delay (spec §8
// scenario 1) and a 1 minute reservation window (spec §6).
func DefaultConfig() Config {
	return Config{
		ReturnDelay:         func(*scheduling.HostOffer) time.Duration { return 10 * time.Millisecond },
		ReservationDuration: time.Minute,
	}
}

type heldOffer struct {
	offer    scheduling.HostOffer
	handle   executor.Handle
	seq      uint64
	consumed bool
}

// OfferQueue is the holding area for outstanding resource offers (spec
// §4.1). The zero value is not usable; construct with New.
type OfferQueue struct {
	mu sync.Mutex

	// offersBySlave enforces invariant O1 (at most one offer per slave).
	offersBySlave map[string]*heldOffer

	// reservations maps task id -> reservation, consulted on each
	// scheduling attempt and purged lazily on access/expiry (spec §4.1
	// "Reservation overlay", §4.3 "Reservation cache").
	reservations map[string]scheduling.Reservation

	// reservationCount mirrors len(reservations), kept alongside the map
	// so ReservationCacheSize (spec §6 RESERVATIONS_CACHE_SIZE_STAT) can
	// be read lock-free instead of taking q.mu on every gauge sample.
	reservationCount atomic.Int64

	seq atomic.Uint64

	// waiters backs NotifyOnOffer: a slave id with pending listeners gets
	// each of them closed the next time an offer for that slave arrives.
	waiters map[string][]chan struct{}

	driver      scheduling.Driver
	maintenance scheduling.MaintenanceController
	exec        *executor.Executor
	metrics     *Metrics
	config      Config
}

// New constructs an OfferQueue. driver and maintenance are the external
// collaborators from spec §6; exec is shared with taskgroups so that both
// offer-decline and group-retry timers live on the same logical timeline
// (spec §5).
func New(driver scheduling.Driver, maintenance scheduling.MaintenanceController, exec *executor.Executor, metrics *Metrics, config Config) *OfferQueue {
	if config.ReturnDelay == nil {
		config.ReturnDelay = DefaultConfig().ReturnDelay
	}
	if config.ReservationDuration <= 0 {
		config.ReservationDuration = time.Minute
	}
	return &OfferQueue{
		offersBySlave: make(map[string]*heldOffer),
		reservations:  make(map[string]scheduling.Reservation),
		waiters:       make(map[string][]chan struct{}),
		driver:        driver,
		maintenance:   maintenance,
		exec:          exec,
		metrics:       metrics,
		config:        config,
	}
}

// AddOffer admits a newly received offer into the queue (spec §4.1
// addOffer). It derives the host's maintenance mode, enforces invariant
// O1 and schedules the offer's decline timer.
func (q *OfferQueue) AddOffer(ctx context.Context, host, slaveID, offerID string, resources interface{}) error {
	mode, err := q.maintenance.GetMode(ctx, host)
	if err != nil {
		return err
	}

	offer := scheduling.HostOffer{
		OfferID:    offerID,
		HostID:     host,
		SlaveID:    slaveID,
		Resources:  resources,
		Mode:       mode,
		ReceivedAt: time.Now(),
	}

	q.mu.Lock()
	prior, dup := q.offersBySlave[slaveID]
	if dup {
		// Invariant O1: a second offer for an already-represented slave
		// means both are declined immediately and neither is retained
		// (spec §9 open question: keep-the-newer is not taken).
		delete(q.offersBySlave, slaveID)
	} else {
		held := &heldOffer{offer: offer, seq: q.nextSeq()}
		held.handle = q.scheduleDecline(ctx, held)
		q.offersBySlave[slaveID] = held
	}
	waiting := q.waiters[slaveID]
	delete(q.waiters, slaveID)
	q.updateHeldGaugeLocked()
	q.mu.Unlock()

	for _, w := range waiting {
		close(w)
	}

	q.metrics.OffersReceived.Inc(1)

	if dup {
		prior.handle.Cancel()
		q.metrics.OffersRejectedO1.Inc(2)
		q.declineNow(ctx, prior.offer.OfferID)
		q.declineNow(ctx, offerID)
	}
	return nil
}

func (q *OfferQueue) nextSeq() uint64 {
	return q.seq.Inc()
}

func (q *OfferQueue) scheduleDecline(ctx context.Context, held *heldOffer) executor.Handle {
	delay := q.config.ReturnDelay(&held.offer)
	offerID := held.offer.OfferID
	return q.exec.Schedule(delay, func() {
		q.decline(ctx, offerID)
	})
}

// decline is invoked by the offer's decline timer. A racing consumption
// makes this a no-op (spec §4.1 "If the offer was already consumed, the
// decline timer is a no-op").
func (q *OfferQueue) decline(ctx context.Context, offerID string) {
	q.mu.Lock()
	var slaveID string
	found := false
	for sid, held := range q.offersBySlave {
		if held.offer.OfferID == offerID {
			slaveID, found = sid, true
			break
		}
	}
	if found {
		delete(q.offersBySlave, slaveID)
		q.updateHeldGaugeLocked()
	}
	q.mu.Unlock()

	if !found {
		return
	}
	q.declineNow(ctx, offerID)
}

// updateHeldGaugeLocked refreshes the held-offer gauge. Must be called
// with q.mu held.
func (q *OfferQueue) updateHeldGaugeLocked() {
	q.metrics.HeldOffers.Update(float64(len(q.offersBySlave)))
}

func (q *OfferQueue) declineNow(ctx context.Context, offerID string) {
	if err := q.driver.DeclineOffer(ctx, offerID); err != nil {
		// Decline RPC failure is logged and swallowed: the offer is
		// already removed from internal state, and the resource manager
		// will re-offer on its own cadence (spec §7).
		q.metrics.DeclineFail.Inc(1)
		log.WithFields(log.Fields{"offer_id": offerID, "error": err}).
			Warn("failed to decline offer")
		return
	}
	q.metrics.OffersDeclined.Inc(1)
}

// LaunchFirst iterates the held offers in preference order (spec §8 P6,
// invariant O2), invoking acceptor on each until one returns a match. The
// reservation overlay (spec §4.1) restricts the candidate set to the
// reserved slave's offer, if any, when taskID has an unexpired
// reservation. If acceptor returns an error the walk stops immediately,
// the offer is left untouched, and the error propagates (spec §4.1).
func (q *OfferQueue) LaunchFirst(ctx context.Context, taskID string, acceptor Acceptor) (bool, error) {
	candidates := q.snapshotCandidates(taskID)

	for _, c := range candidates {
		info, ok, err := acceptor(&c.offer)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}

		consumed := q.tryConsume(c.offer.SlaveID, c.offer.OfferID)
		if !consumed {
			// Raced with an expiry/rescind between snapshot and match;
			// treat as no match and keep scanning remaining candidates.
			continue
		}

		if err := q.driver.LaunchTask(ctx, c.offer.OfferID, info); err != nil {
			// Launch failure: offer is treated as consumed (already
			// removed above), never re-inserted (spec §4.1, §7 P5). The
			// caller (TaskScheduler) is responsible for the LOST
			// transition, signaled by the LaunchError type so it can be
			// told apart from an acceptor/assigner error.
			return false, &LaunchError{OfferID: c.offer.OfferID, Cause: err}
		}

		q.metrics.OffersLaunched.Inc(1)
		q.purgeReservation(taskID)
		return true, nil
	}
	return false, nil
}

// candidateOffer is an immutable snapshot of a held offer taken under
// lock so that a single LaunchFirst call sees a consistent view in
// preference order (spec §5 "Offer visibility is monotonic").
type candidateOffer struct {
	offer scheduling.HostOffer
}

func (q *OfferQueue) snapshotCandidates(taskID string) []candidateOffer {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.purgeExpiredReservationLocked(taskID)

	if res, ok := q.reservations[taskID]; ok {
		if held, ok := q.offersBySlave[res.SlaveID]; ok && !held.consumed {
			return []candidateOffer{{offer: held.offer}}
		}
		// Reserved slave has no held offer yet: this task sees nothing
		// this attempt (the reservation hides all other offers from it).
		return nil
	}

	type seqOffer struct {
		offer scheduling.HostOffer
		seq   uint64
	}
	all := make([]seqOffer, 0, len(q.offersBySlave))
	for _, held := range q.offersBySlave {
		if held.consumed {
			continue
		}
		all = append(all, seqOffer{offer: held.offer, seq: held.seq})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].offer.Mode != all[j].offer.Mode {
			return all[i].offer.Mode < all[j].offer.Mode
		}
		return all[i].seq < all[j].seq
	})

	out := make([]candidateOffer, len(all))
	for i, so := range all {
		out[i] = candidateOffer{offer: so.offer}
	}
	return out
}

func (q *OfferQueue) tryConsume(slaveID, offerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	held, ok := q.offersBySlave[slaveID]
	if !ok || held.consumed || held.offer.OfferID != offerID {
		return false
	}
	held.consumed = true
	held.handle.Cancel()
	delete(q.offersBySlave, slaveID)
	q.updateHeldGaugeLocked()
	return true
}

// HostChangedState updates the mode annotation on any held offer from
// the event's host (spec §4.1 hostChangedState). A new DRAINED mode
// either re-sorts (default) or forces an immediate decline, per
// Config.DrainedForcesDecline (spec §9 open question).
func (q *OfferQueue) HostChangedState(ctx context.Context, event *scheduling.HostMaintenanceStateChange) {
	host, mode := event.Host, event.Mode
	q.mu.Lock()
	var offerID string
	var slaveID string
	forceDecline := false
	for sid, held := range q.offersBySlave {
		if held.offer.HostID != host {
			continue
		}
		held.offer.Mode = mode
		if mode == scheduling.MaintenanceDrained && q.config.DrainedForcesDecline {
			forceDecline = true
			offerID = held.offer.OfferID
			slaveID = sid
		}
	}
	if forceDecline {
		if held, ok := q.offersBySlave[slaveID]; ok {
			held.handle.Cancel()
			delete(q.offersBySlave, slaveID)
			q.updateHeldGaugeLocked()
		}
	}
	q.mu.Unlock()

	if forceDecline {
		q.declineNow(ctx, offerID)
	}
}

// RecordReservation records a soft binding of taskID to slaveID, valid
// until ReservationDuration elapses (spec §4.3 step 4). Called by
// TaskScheduler after a Preemptor hit.
func (q *OfferQueue) RecordReservation(taskID, slaveID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, existed := q.reservations[taskID]
	q.reservations[taskID] = scheduling.Reservation{
		TaskID:   taskID,
		SlaveID:  slaveID,
		ExpireAt: time.Now().Add(q.config.ReservationDuration),
	}
	if !existed {
		q.reservationCount.Inc()
	}
}

// PurgeReservation removes any reservation for taskID. Nothing in this
// module calls it: taskgroups' TasksDeleted and TaskChangedState sinks do
// not purge reservations, so a reservation is otherwise removed only when
// its task launches through LaunchFirst or when it is found expired.
func (q *OfferQueue) PurgeReservation(taskID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.purgeReservationLocked(taskID)
}

func (q *OfferQueue) purgeReservation(taskID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.purgeReservationLocked(taskID)
}

func (q *OfferQueue) purgeReservationLocked(taskID string) {
	if _, ok := q.reservations[taskID]; ok {
		delete(q.reservations, taskID)
		q.reservationCount.Dec()
	}
}

// purgeExpiredReservationLocked removes taskID's reservation if it has
// expired (spec §8 B3: "A reservation older than reservationDuration is
// not consulted"). Must be called with q.mu held.
func (q *OfferQueue) purgeExpiredReservationLocked(taskID string) {
	if res, ok := q.reservations[taskID]; ok && res.Expired(time.Now()) {
		delete(q.reservations, taskID)
		q.reservationCount.Dec()
	}
}

// NotifyOnOffer returns a channel that is closed the next time an offer
// for slaveID is added, letting a caller wake a wait early instead of
// idling out a full penalty. No package in this module calls it;
// taskgroups' backoff retries always wait out their delay. Inspired by the listener/notify pattern in
// lxpollitt-kubernetes-mesos's offerStorage.Listen; this is an enrichment
// beyond spec.md's literal text and does not affect any invariant in §8.
func (q *OfferQueue) NotifyOnOffer(slaveID string) <-chan struct{} {
	q.mu.Lock()
	defer q.mu.Unlock()

	if held, ok := q.offersBySlave[slaveID]; ok && !held.consumed {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	ch := make(chan struct{})
	q.waiters[slaveID] = append(q.waiters[slaveID], ch)
	return ch
}

// ReservationCacheSize returns the current size of the reservation cache,
// exposed via the RESERVATIONS_CACHE_SIZE_STAT gauge (spec §6).
func (q *OfferQueue) ReservationCacheSize() int {
	return int(q.reservationCount.Load())
}

// HeldOfferCount returns the number of offers currently held, for
// debugging/snapshot purposes.
func (q *OfferQueue) HeldOfferCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.offersBySlave)
}

// Snapshot returns a debug view of held offers in preference order, for
// operational introspection (not consulted by scheduling logic itself).
func (q *OfferQueue) Snapshot() []scheduling.HostOffer {
	candidates := q.snapshotCandidatesAll()
	out := make([]scheduling.HostOffer, len(candidates))
	for i, c := range candidates {
		out[i] = c.offer
	}
	return out
}

func (q *OfferQueue) snapshotCandidatesAll() []candidateOffer {
	q.mu.Lock()
	defer q.mu.Unlock()

	type seqOffer struct {
		offer scheduling.HostOffer
		seq   uint64
	}
	all := make([]seqOffer, 0, len(q.offersBySlave))
	for _, held := range q.offersBySlave {
		all = append(all, seqOffer{offer: held.offer, seq: held.seq})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].offer.Mode != all[j].offer.Mode {
			return all[i].offer.Mode < all[j].offer.Mode
		}
		return all[i].seq < all[j].seq
	})
	out := make([]candidateOffer, len(all))
	for i, so := range all {
		out[i] = candidateOffer{offer: so.offer}
	}
	return out
}
