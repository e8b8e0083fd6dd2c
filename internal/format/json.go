package format

import (
	"encoding/json"
	"io"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/ohlcv"
)

// TickJSONFormatter writes one newline-delimited JSON object per tick.
// NDJSON rather than a single top-level array, so WriteBatch never needs to
// know whether it is the first or last call.
type TickJSONFormatter struct{}

func (TickJSONFormatter) Extension() string           { return "ndjson" }
func (TickJSONFormatter) WriteHeader(io.Writer) error { return nil }
func (TickJSONFormatter) WriteFooter(io.Writer) error { return nil }

func (TickJSONFormatter) WriteBatch(w io.Writer, ticks []domain.Tick) error {
	enc := json.NewEncoder(w)
	for _, t := range ticks {
		if err := enc.Encode(tickRecord{
			Timestamp: t.Timestamp.UnixMilli(),
			Ask:       t.Ask,
			Bid:       t.Bid,
			AskVolume: t.AskVolume,
			BidVolume: t.BidVolume,
		}); err != nil {
			return err
		}
	}
	return nil
}

type tickRecord struct {
	Timestamp int64   `json:"timestamp"`
	Ask       float64 `json:"ask"`
	Bid       float64 `json:"bid"`
	AskVolume float32 `json:"ask_volume"`
	BidVolume float32 `json:"bid_volume"`
}

// BarJSONFormatter writes one newline-delimited JSON object per bar.
type BarJSONFormatter struct{}

func (BarJSONFormatter) Extension() string           { return "ndjson" }
func (BarJSONFormatter) WriteHeader(io.Writer) error { return nil }
func (BarJSONFormatter) WriteFooter(io.Writer) error { return nil }

func (BarJSONFormatter) WriteBatch(w io.Writer, bars []ohlcv.Bar) error {
	enc := json.NewEncoder(w)
	for _, b := range bars {
		if err := enc.Encode(b); err != nil {
			return err
		}
	}
	return nil
}
