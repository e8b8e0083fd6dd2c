package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/perror"
)

// Stream composes the Range Planner, HTTP Fetcher, Decompressor, and Tick
// Parser (A->D->B->C) into an ordered sequence of TickBatches, fetching up
// to Concurrency hours ahead of the slowest consumer.
type Stream struct {
	client      *Client
	instrument  domain.Instrument
	plans       []HourPlan
	concurrency int
}

// NewStream builds a Stream over the full plan for r. concurrency is N from
// the concurrency model; it must be >= 1.
func NewStream(client *Client, baseURL string, instrument domain.Instrument, r domain.DateRange, concurrency int) *Stream {
	return NewStreamFromPlans(client, instrument, Plan(baseURL, instrument.PathFragment, r), concurrency)
}

// NewStreamFromPlans builds a Stream over an explicit, possibly resumed
// (i.e. already-sliced) sequence of hour plans, letting a resumed task skip
// straight past the hours it already fetched.
func NewStreamFromPlans(client *Client, instrument domain.Instrument, plans []HourPlan, concurrency int) *Stream {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Stream{
		client:      client,
		instrument:  instrument,
		plans:       plans,
		concurrency: concurrency,
	}
}

// Run fetches every planned hour, up to Concurrency in flight at once, and
// returns results on the channel strictly in HourSlot order even though the
// underlying fetches complete out of order. The channel is closed once every
// slot has been emitted, or early if a Permanent error strikes the very
// first slot. The caller must drain the channel or cancel ctx to release
// the goroutines backing it.
func (s *Stream) Run(ctx context.Context) <-chan BatchResult {
	out := make(chan BatchResult)
	if len(s.plans) == 0 {
		close(out)
		return out
	}

	go s.run(ctx, out)
	return out
}

func (s *Stream) run(ctx context.Context, out chan<- BatchResult) {
	defer close(out)

	// dispatchCtx stops new fetches (via sem.Acquire and fetchOne's own
	// check) the moment the caller cancels ctx or a Permanent error strikes
	// the first slot. The emitter below deliberately does not race its send
	// against dispatchCtx: canceling it to signal an abort must never be
	// able to race the delivery of the very result that caused the abort.
	// It only ever races against the caller's own ctx, which is done only
	// once the caller has genuinely stopped draining, so a Permanent result
	// on slot 0 is always delivered before the stream can be observed as
	// aborted.
	dispatchCtx, cancelDispatch := context.WithCancel(ctx)
	defer cancelDispatch()

	sem := semaphore.NewWeighted(int64(s.concurrency))

	var (
		mu      sync.Mutex
		cond    = sync.NewCond(&mu)
		pending = make(map[int]BatchResult)
		nextIdx = 0
		aborted bool
		allDone bool
		wg      sync.WaitGroup
	)

	// The emitter is the only goroutine that ever drains pending or sends
	// on out, so at most one send is in flight at a time and slots reach
	// the consumer in strict order regardless of which fetch finishes
	// first. Fetch goroutines below only ever populate pending and signal.
	emitterDone := make(chan struct{})
	go func() {
		defer close(emitterDone)
		mu.Lock()
		defer mu.Unlock()
		for {
			for {
				res, ok := pending[nextIdx]
				if !ok {
					break
				}
				delete(pending, nextIdx)
				nextIdx++
				mu.Unlock()
				select {
				case out <- res:
				case <-ctx.Done():
				}
				mu.Lock()
			}
			if allDone {
				return
			}
			cond.Wait()
		}
	}()

	for i, plan := range s.plans {
		if err := sem.Acquire(dispatchCtx, 1); err != nil {
			break
		}
		mu.Lock()
		if aborted {
			mu.Unlock()
			sem.Release(1)
			break
		}
		mu.Unlock()

		wg.Add(1)
		go func(idx int, plan HourPlan) {
			defer wg.Done()
			defer sem.Release(1)

			res := s.fetchOne(dispatchCtx, plan)

			mu.Lock()
			pending[idx] = res
			if idx == 0 {
				if kind, ok := perror.KindOf(res.Err); ok && kind == perror.Permanent {
					aborted = true
					cancelDispatch()
				}
			}
			cond.Signal()
			mu.Unlock()
		}(i, plan)
	}

	wg.Wait()

	mu.Lock()
	allDone = true
	cond.Signal()
	mu.Unlock()

	<-emitterDone
}

func (s *Stream) fetchOne(ctx context.Context, plan HourPlan) BatchResult {
	select {
	case <-ctx.Done():
		return BatchResult{Batch: TickBatch{Hour: plan.Hour}, Err: ctx.Err()}
	default:
	}

	result, err := s.client.Fetch(plan.URL)
	if err != nil {
		return BatchResult{Batch: TickBatch{Hour: plan.Hour}, Err: err}
	}
	if result.Empty {
		return BatchResult{Batch: TickBatch{Hour: plan.Hour}}
	}

	decompressed, err := Decompress(result.Blob)
	if err != nil {
		return BatchResult{Batch: TickBatch{Hour: plan.Hour}, Err: err}
	}

	ticks, err := ParseTicks(decompressed, plan.Hour.Time(), s.instrument.DecimalFactorF64())
	if err != nil {
		return BatchResult{Batch: TickBatch{Hour: plan.Hour}, Err: err}
	}

	return BatchResult{Batch: TickBatch{Hour: plan.Hour, Ticks: ticks}}
}
