package domain

import "time"

// Tick is a single normalized price update for an instrument.
type Tick struct {
	Timestamp time.Time
	Ask       float64
	Bid       float64
	AskVolume float32
	BidVolume float32
}

// Mid returns the average of Ask and Bid.
func (t Tick) Mid() float64 { return (t.Ask + t.Bid) / 2 }

// Spread returns Ask - Bid.
func (t Tick) Spread() float64 { return t.Ask - t.Bid }

// TotalVolume returns AskVolume + BidVolume.
func (t Tick) TotalVolume() float32 { return t.AskVolume + t.BidVolume }

// RawTickSize is the byte length of one bi5 tick record.
const RawTickSize = 20

// RawTick is a tick as read straight out of a decompressed bi5 file, before
// price normalization by the instrument's decimal factor.
type RawTick struct {
	MsOffset  uint32
	AskRaw    uint32
	BidRaw    uint32
	AskVolume float32
	BidVolume float32
}

// Normalize converts a RawTick into a Tick using hourStart as the time
// origin and decimalFactor to scale the raw integer prices.
func (r RawTick) Normalize(hourStart time.Time, decimalFactor float64) Tick {
	return Tick{
		Timestamp: hourStart.Add(time.Duration(r.MsOffset) * time.Millisecond),
		Ask:       float64(r.AskRaw) / decimalFactor,
		Bid:       float64(r.BidRaw) / decimalFactor,
		AskVolume: r.AskVolume,
		BidVolume: r.BidVolume,
	}
}
