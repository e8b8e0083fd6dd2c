package format

import (
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/ohlcv"
)

// tickParquetRow is the on-disk parquet shape for a Tick. Kept separate
// from domain.Tick so the domain package stays free of serialization tags.
type tickParquetRow struct {
	Timestamp int64   `parquet:"timestamp"`
	Ask       float64 `parquet:"ask"`
	Bid       float64 `parquet:"bid"`
	AskVolume float32 `parquet:"ask_volume"`
	BidVolume float32 `parquet:"bid_volume"`
}

// TickParquetFormatter writes ticks through a streaming generic writer
// rather than the buffer-everything-then-parquet.WriteFile shape. Each
// WriteBatch hands its rows to the writer, which buffers them and decides
// row-group boundaries itself; WriteFooter closes the writer and flushes
// the remaining rows and the file footer.
type TickParquetFormatter struct {
	w *parquet.GenericWriter[tickParquetRow]
}

func (TickParquetFormatter) Extension() string { return "parquet" }

func (f *TickParquetFormatter) WriteHeader(w io.Writer) error {
	f.w = parquet.NewGenericWriter[tickParquetRow](w)
	return nil
}

func (f *TickParquetFormatter) WriteBatch(_ io.Writer, ticks []domain.Tick) error {
	rows := make([]tickParquetRow, len(ticks))
	for i, t := range ticks {
		rows[i] = tickParquetRow{
			Timestamp: t.Timestamp.UnixMilli(),
			Ask:       t.Ask,
			Bid:       t.Bid,
			AskVolume: t.AskVolume,
			BidVolume: t.BidVolume,
		}
	}
	_, err := f.w.Write(rows)
	return err
}

func (f *TickParquetFormatter) WriteFooter(io.Writer) error {
	return f.w.Close()
}

// BarParquetFormatter writes OHLCV bars as parquet row groups.
type BarParquetFormatter struct {
	w *parquet.GenericWriter[ohlcv.Bar]
}

func (BarParquetFormatter) Extension() string { return "parquet" }

func (f *BarParquetFormatter) WriteHeader(w io.Writer) error {
	f.w = parquet.NewGenericWriter[ohlcv.Bar](w)
	return nil
}

func (f *BarParquetFormatter) WriteBatch(_ io.Writer, bars []ohlcv.Bar) error {
	_, err := f.w.Write(bars)
	return err
}

func (f *BarParquetFormatter) WriteFooter(io.Writer) error {
	return f.w.Close()
}
