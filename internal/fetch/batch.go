package fetch

import "github.com/factordynamics/paracas/internal/domain"

// TickBatch carries every tick fetched for one hour slot. Ticks may be
// empty when the archive returned 404 or a zero-length body.
type TickBatch struct {
	Hour  domain.HourSlot
	Ticks []domain.Tick
}

// BatchResult is what the Tick Stream emits per slot: either a populated
// TickBatch or the error that slot failed with. A slot failure other than
// the first does not stop the stream; the caller decides how to proceed.
type BatchResult struct {
	Batch TickBatch
	Err   error
}
