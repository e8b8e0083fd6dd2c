// Package format implements the output formatters consumers attach to a
// Tick Stream or an Aggregator. Per the formatter contract, each formatter
// is driven as WriteHeader (exactly once), WriteBatch (once per batch, in
// the stream's delivery order), WriteFooter (exactly once) — deliberately a
// streaming contract rather than the batch-only write-everything-at-once
// shape the original Dukascopy tooling used, so a caller can flush rows to
// disk as a job progresses instead of buffering a whole job in memory.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/ohlcv"
)

// TickFormatter serializes a stream of raw ticks.
type TickFormatter interface {
	WriteHeader(w io.Writer) error
	WriteBatch(w io.Writer, ticks []domain.Tick) error
	WriteFooter(w io.Writer) error
	Extension() string
}

// BarFormatter serializes a stream of OHLCV bars.
type BarFormatter interface {
	WriteHeader(w io.Writer) error
	WriteBatch(w io.Writer, bars []ohlcv.Bar) error
	WriteFooter(w io.Writer) error
	Extension() string
}

// OutputFormat names a supported serialization.
type OutputFormat int

const (
	FormatCSV OutputFormat = iota
	FormatJSON
	FormatParquet
)

func (f OutputFormat) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// ParseOutputFormat parses the --format CLI flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return 0, fmt.Errorf("unsupported format %q, expected csv, json, or parquet", s)
	}
}

// NewTickFormatter builds the TickFormatter for f. Returns an error for an
// unrecognized format rather than nil, since this is reached from CLI input.
func NewTickFormatter(f OutputFormat) (TickFormatter, error) {
	switch f {
	case FormatCSV:
		return &TickCSVFormatter{}, nil
	case FormatJSON:
		return &TickJSONFormatter{}, nil
	case FormatParquet:
		return &TickParquetFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported tick format: %v", f)
	}
}

// NewBarFormatter builds the BarFormatter for f.
func NewBarFormatter(f OutputFormat) (BarFormatter, error) {
	switch f {
	case FormatCSV:
		return &BarCSVFormatter{}, nil
	case FormatJSON:
		return &BarJSONFormatter{}, nil
	case FormatParquet:
		return &BarParquetFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported bar format: %v", f)
	}
}
