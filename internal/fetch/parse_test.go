package fetch

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factordynamics/paracas/internal/perror"
)

func buildRecord(msOffset, askRaw, bidRaw uint32, askVol, bidVol float32) []byte {
	buf := make([]byte, 20)
	binary.BigEndian.PutUint32(buf[0:4], msOffset)
	binary.BigEndian.PutUint32(buf[4:8], askRaw)
	binary.BigEndian.PutUint32(buf[8:12], bidRaw)
	binary.BigEndian.PutUint32(buf[12:16], math.Float32bits(askVol))
	binary.BigEndian.PutUint32(buf[16:20], math.Float32bits(bidVol))
	return buf
}

func TestParseTicks(t *testing.T) {
	hourStart := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("decodes whole records", func(t *testing.T) {
		var blob bytes.Buffer
		blob.Write(buildRecord(0, 110000, 109990, 1.5, 2.5))
		blob.Write(buildRecord(500, 110010, 110000, 1.0, 1.0))

		ticks, err := ParseTicks(blob.Bytes(), hourStart, 100000)
		require.NoError(t, err)
		require.Len(t, ticks, 2)

		assert.Equal(t, hourStart, ticks[0].Timestamp)
		assert.InDelta(t, 1.1, ticks[0].Ask, 1e-9)
		assert.InDelta(t, 1.0999, ticks[0].Bid, 1e-9)
		assert.Equal(t, hourStart.Add(500*time.Millisecond), ticks[1].Timestamp)
	})

	t.Run("output length equals bytes/20", func(t *testing.T) {
		var blob bytes.Buffer
		for i := 0; i < 7; i++ {
			blob.Write(buildRecord(uint32(i*1000), 100000, 99990, 1, 1))
		}
		ticks, err := ParseTicks(blob.Bytes(), hourStart, 100000)
		require.NoError(t, err)
		assert.Len(t, ticks, len(blob.Bytes())/20)
	})

	t.Run("trailing partial record is Corrupt", func(t *testing.T) {
		var blob bytes.Buffer
		blob.Write(buildRecord(0, 110000, 109990, 1, 1))
		blob.WriteByte(0x01) // one stray byte

		_, err := ParseTicks(blob.Bytes(), hourStart, 100000)
		require.Error(t, err)
		kind, ok := perror.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, perror.Corrupt, kind)
	})

	t.Run("empty blob yields no ticks, no error", func(t *testing.T) {
		ticks, err := ParseTicks(nil, hourStart, 100000)
		require.NoError(t, err)
		assert.Empty(t, ticks)
	})
}
