package format

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/ohlcv"
)

func sampleTicks() []domain.Tick {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Tick{
		{Timestamp: base, Ask: 1.1001, Bid: 1.0999, AskVolume: 1.5, BidVolume: 2.5},
		{Timestamp: base.Add(time.Second), Ask: 1.1002, Bid: 1.1000, AskVolume: 1.0, BidVolume: 1.0},
	}
}

func sampleBars() []ohlcv.Bar {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return []ohlcv.Bar{
		{BucketStart: base, Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15, Volume: 10, TickCount: 4},
	}
}

func TestParseOutputFormat(t *testing.T) {
	cases := map[string]OutputFormat{"csv": FormatCSV, "JSON": FormatJSON, " parquet ": FormatParquet}
	for in, want := range cases {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseOutputFormat("xml")
	assert.Error(t, err)
}

func TestOutputFormat_String(t *testing.T) {
	assert.Equal(t, "csv", FormatCSV.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "parquet", FormatParquet.String())
}

func TestTickCSVFormatter_StreamingContract(t *testing.T) {
	f, err := NewTickFormatter(FormatCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteHeader(&buf))
	require.NoError(t, f.WriteBatch(&buf, sampleTicks()[:1]))
	require.NoError(t, f.WriteBatch(&buf, sampleTicks()[1:]))
	require.NoError(t, f.WriteFooter(&buf))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 data rows
	assert.Equal(t, []string{"timestamp", "ask", "bid", "ask_volume", "bid_volume"}, rows[0])
	assert.Equal(t, "1.1001", rows[1][1])
}

func TestBarCSVFormatter_StreamingContract(t *testing.T) {
	f, err := NewBarFormatter(FormatCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteHeader(&buf))
	require.NoError(t, f.WriteBatch(&buf, sampleBars()))
	require.NoError(t, f.WriteFooter(&buf))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "4", rows[1][6])
}

func TestTickJSONFormatter_NDJSONOneObjectPerLine(t *testing.T) {
	f, err := NewTickFormatter(FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteHeader(&buf))
	require.NoError(t, f.WriteBatch(&buf, sampleTicks()))
	require.NoError(t, f.WriteFooter(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"ask":1.1001`)
}

func TestBarJSONFormatter_NDJSONOneObjectPerLine(t *testing.T) {
	f, err := NewBarFormatter(FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteHeader(&buf))
	require.NoError(t, f.WriteBatch(&buf, sampleBars()))
	require.NoError(t, f.WriteFooter(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"tick_count":4`)
}

func TestTickParquetFormatter_HeaderBatchFooterSequence(t *testing.T) {
	f, err := NewTickFormatter(FormatParquet)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteHeader(&buf))
	require.NoError(t, f.WriteBatch(&buf, sampleTicks()))
	require.NoError(t, f.WriteFooter(&buf))

	assert.NotZero(t, buf.Len(), "a closed parquet writer must have flushed footer bytes")
}

func TestBarParquetFormatter_HeaderBatchFooterSequence(t *testing.T) {
	f, err := NewBarFormatter(FormatParquet)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.WriteHeader(&buf))
	require.NoError(t, f.WriteBatch(&buf, sampleBars()))
	require.NoError(t, f.WriteFooter(&buf))

	assert.NotZero(t, buf.Len())
}

func TestExtensions(t *testing.T) {
	csvF, _ := NewTickFormatter(FormatCSV)
	jsonF, _ := NewTickFormatter(FormatJSON)
	parquetF, _ := NewTickFormatter(FormatParquet)

	assert.Equal(t, "csv", csvF.Extension())
	assert.Equal(t, "ndjson", jsonF.Extension())
	assert.Equal(t, "parquet", parquetF.Extension())
}

func TestNewTickFormatter_UnsupportedFormat(t *testing.T) {
	_, err := NewTickFormatter(OutputFormat(99))
	assert.Error(t, err)
}

func TestNewBarFormatter_UnsupportedFormat(t *testing.T) {
	_, err := NewBarFormatter(OutputFormat(99))
	assert.Error(t, err)
}
