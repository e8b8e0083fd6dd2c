package ohlcv

import (
	"time"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/perror"
)

// BucketStart floors t to the start of its bucket at timeframe tf. Callers
// must not pass domain.TickTimeframe; there is no bucket for unaggregated ticks.
func BucketStart(t time.Time, tf domain.Timeframe) time.Time {
	u := t.UTC()
	if tf == domain.Day1 {
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	}
	secs, ok := tf.Seconds()
	if !ok {
		return u
	}
	unix := u.Unix()
	floored := (unix / secs) * secs
	return time.Unix(floored, 0).UTC()
}

// Aggregator folds an ordered tick stream into closed bars at a single
// timeframe (component F). It is not safe for concurrent use; one
// Aggregator instance belongs to one InstrumentTask.
type Aggregator struct {
	tf domain.Timeframe

	open       bool
	bucket     time.Time
	o, h, l, c float64
	v          float64
	n          int64

	lastTimestamp time.Time
	haveLast      bool
}

// NewAggregator constructs an Aggregator for the given timeframe.
func NewAggregator(tf domain.Timeframe) *Aggregator {
	return &Aggregator{tf: tf}
}

// Process folds one tick into the current bucket. It returns a non-nil Bar
// exactly when this tick starts a new bucket, in which case the returned
// Bar is the one that just closed. Ticks must arrive in non-decreasing
// timestamp order; a backwards timestamp is a programmer error and yields
// Error(OrderViolation).
func (a *Aggregator) Process(t domain.Tick) (*Bar, error) {
	if a.haveLast && t.Timestamp.Before(a.lastTimestamp) {
		return nil, perror.New(perror.OrderViolation, "aggregate",
			"tick timestamp moved backwards")
	}
	a.lastTimestamp = t.Timestamp
	a.haveLast = true

	mid := t.Mid()
	vol := float64(t.AskVolume) + float64(t.BidVolume)
	b := BucketStart(t.Timestamp, a.tf)

	if !a.open {
		a.startBucket(b, mid, vol)
		return nil, nil
	}

	if b.Equal(a.bucket) {
		a.updateBucket(mid, vol)
		return nil, nil
	}

	closed := a.snapshot()
	a.startBucket(b, mid, vol)
	return &closed, nil
}

// Finish emits the in-progress bucket, if any, and resets the Aggregator's
// state so it can be reused for a fresh tick sequence.
func (a *Aggregator) Finish() *Bar {
	if !a.open {
		return nil
	}
	closed := a.snapshot()
	a.open = false
	a.haveLast = false
	return &closed
}

func (a *Aggregator) startBucket(b time.Time, mid, vol float64) {
	a.open = true
	a.bucket = b
	a.o, a.h, a.l, a.c = mid, mid, mid, mid
	a.v = vol
	a.n = 1
}

func (a *Aggregator) updateBucket(mid, vol float64) {
	if mid > a.h {
		a.h = mid
	}
	if mid < a.l {
		a.l = mid
	}
	a.c = mid
	a.v += vol
	a.n++
}

func (a *Aggregator) snapshot() Bar {
	return Bar{
		BucketStart: a.bucket,
		Open:        a.o,
		High:        a.h,
		Low:         a.l,
		Close:       a.c,
		Volume:      a.v,
		TickCount:   a.n,
	}
}
