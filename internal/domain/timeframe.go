package domain

import (
	"fmt"
	"strings"
)

// Timeframe selects how ticks are aggregated into OHLCV bars, or Tick for
// no aggregation at all.
type Timeframe int

const (
	TickTimeframe Timeframe = iota
	Second1
	Minute1
	Minute5
	Minute15
	Minute30
	Hour1
	Hour4
	Day1
)

// Seconds returns the bar duration in seconds, or (0, false) for Tick.
func (tf Timeframe) Seconds() (int64, bool) {
	switch tf {
	case TickTimeframe:
		return 0, false
	case Second1:
		return 1, true
	case Minute1:
		return 60, true
	case Minute5:
		return 300, true
	case Minute15:
		return 900, true
	case Minute30:
		return 1800, true
	case Hour1:
		return 3600, true
	case Hour4:
		return 14400, true
	case Day1:
		return 86400, true
	default:
		return 0, false
	}
}

// IsTick reports whether tf performs no aggregation.
func (tf Timeframe) IsTick() bool { return tf == TickTimeframe }

func (tf Timeframe) String() string {
	switch tf {
	case TickTimeframe:
		return "tick"
	case Second1:
		return "s1"
	case Minute1:
		return "m1"
	case Minute5:
		return "m5"
	case Minute15:
		return "m15"
	case Minute30:
		return "m30"
	case Hour1:
		return "h1"
	case Hour4:
		return "h4"
	case Day1:
		return "d1"
	default:
		return "unknown"
	}
}

// ParseTimeframe parses a human-friendly timeframe identifier.
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tick":
		return TickTimeframe, nil
	case "s1", "1s", "second", "second1":
		return Second1, nil
	case "m1", "1m", "minute", "minute1":
		return Minute1, nil
	case "m5", "5m", "minute5":
		return Minute5, nil
	case "m15", "15m", "minute15":
		return Minute15, nil
	case "m30", "30m", "minute30":
		return Minute30, nil
	case "h1", "1h", "hour", "hour1":
		return Hour1, nil
	case "h4", "4h", "hour4":
		return Hour4, nil
	case "d1", "1d", "day", "day1", "daily":
		return Day1, nil
	default:
		return 0, fmt.Errorf("invalid timeframe %q, expected one of: tick, s1, m1, m5, m15, m30, h1, h4, d1", s)
	}
}
