package format

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/ohlcv"
)

// TickCSVFormatter writes ticks as comma-separated values, one row per
// tick. Column order matches the original tooling's csv output so existing
// downstream tooling keeps parsing correctly.
type TickCSVFormatter struct{}

func (TickCSVFormatter) Extension() string { return "csv" }

func (TickCSVFormatter) WriteHeader(w io.Writer) error {
	return csv.NewWriter(w).WriteAll([][]string{{"timestamp", "ask", "bid", "ask_volume", "bid_volume"}})
}

func (TickCSVFormatter) WriteBatch(w io.Writer, ticks []domain.Tick) error {
	cw := csv.NewWriter(w)
	for _, t := range ticks {
		row := []string{
			strconv.FormatInt(t.Timestamp.UnixMilli(), 10),
			floatStr(t.Ask),
			floatStr(t.Bid),
			floatStr32(t.AskVolume),
			floatStr32(t.BidVolume),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (TickCSVFormatter) WriteFooter(io.Writer) error { return nil }

// BarCSVFormatter writes OHLCV bars as comma-separated values.
type BarCSVFormatter struct{}

func (BarCSVFormatter) Extension() string { return "csv" }

func (BarCSVFormatter) WriteHeader(w io.Writer) error {
	return csv.NewWriter(w).WriteAll([][]string{{"timestamp", "open", "high", "low", "close", "volume", "tick_count"}})
}

func (BarCSVFormatter) WriteBatch(w io.Writer, bars []ohlcv.Bar) error {
	cw := csv.NewWriter(w)
	for _, b := range bars {
		row := []string{
			strconv.FormatInt(b.BucketStart.UnixMilli(), 10),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			floatStr(b.Volume),
			strconv.FormatInt(b.TickCount, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (BarCSVFormatter) WriteFooter(io.Writer) error { return nil }

func floatStr(f float64) string   { return strconv.FormatFloat(f, 'f', -1, 64) }
func floatStr32(f float32) string { return strconv.FormatFloat(float64(f), 'f', -1, 32) }
