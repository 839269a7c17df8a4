package offerqueue

import "go.uber.org/tally"

// Metrics is the offer queue's tally-backed instrumentation, following the
// teacher's NewMetrics(scope)-per-package convention
// (hostmgr/offer/offerpool.NewMetrics).
type Metrics struct {
	OffersReceived   tally.Counter
	OffersDeclined   tally.Counter
	OffersLaunched   tally.Counter
	OffersRejectedO1 tally.Counter
	DeclineFail      tally.Counter
	HeldOffers       tally.Gauge
}

// NewMetrics roots a Metrics under the given tally scope.
func NewMetrics(scope tally.Scope) *Metrics {
	s := scope.SubScope("offerqueue")
	return &Metrics{
		OffersReceived:   s.Counter("offers_received"),
		OffersDeclined:   s.Counter("offers_declined"),
		OffersLaunched:   s.Counter("offers_launched"),
		OffersRejectedO1: s.Counter("offers_rejected_duplicate_slave"),
		DeclineFail:      s.Counter("decline_fail"),
		HeldOffers:       s.Gauge("held_offers"),
	}
}
