package fetch

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/perror"
)

// ParseTicks decodes a decompressed hour blob into normalized ticks.
// decompressed must consist of whole 20-byte records; a trailing partial
// record is Corrupt rather than silently dropped.
func ParseTicks(decompressed []byte, hourStart time.Time, decimalFactor float64) ([]domain.Tick, error) {
	if len(decompressed)%domain.RawTickSize != 0 {
		return nil, perror.New(perror.Corrupt, "parse",
			fmt.Sprintf("length %d is not a multiple of %d", len(decompressed), domain.RawTickSize))
	}

	count := len(decompressed) / domain.RawTickSize
	ticks := make([]domain.Tick, count)
	for i := 0; i < count; i++ {
		rec := decompressed[i*domain.RawTickSize : (i+1)*domain.RawTickSize]
		raw := domain.RawTick{
			MsOffset:  binary.BigEndian.Uint32(rec[0:4]),
			AskRaw:    binary.BigEndian.Uint32(rec[4:8]),
			BidRaw:    binary.BigEndian.Uint32(rec[8:12]),
			AskVolume: math.Float32frombits(binary.BigEndian.Uint32(rec[12:16])),
			BidVolume: math.Float32frombits(binary.BigEndian.Uint32(rec[16:20])),
		}
		ticks[i] = raw.Normalize(hourStart, decimalFactor)
	}
	return ticks, nil
}
