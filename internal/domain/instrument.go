package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an Instrument. The set matches the eight categories
// named by the tick-downloader interface rather than the seven the original
// Dukascopy registry used internally (it folds "stocks" into "stock" and has
// no separate "metals" bucket).
type Category int

const (
	CategoryForex Category = iota
	CategoryCrypto
	CategoryStocks
	CategoryMetals
	CategoryIndices
	CategoryCommodities
	CategoryBonds
	CategoryEtfs
)

func (c Category) String() string {
	switch c {
	case CategoryForex:
		return "forex"
	case CategoryCrypto:
		return "crypto"
	case CategoryStocks:
		return "stocks"
	case CategoryMetals:
		return "metals"
	case CategoryIndices:
		return "indices"
	case CategoryCommodities:
		return "commodities"
	case CategoryBonds:
		return "bonds"
	case CategoryEtfs:
		return "etfs"
	default:
		return "unknown"
	}
}

// ParseCategory parses the lowercase wire form of Category.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forex":
		return CategoryForex, true
	case "crypto":
		return CategoryCrypto, true
	case "stocks", "stock":
		return CategoryStocks, true
	case "metals", "metal":
		return CategoryMetals, true
	case "indices", "index":
		return CategoryIndices, true
	case "commodities", "commodity":
		return CategoryCommodities, true
	case "bonds", "bond":
		return CategoryBonds, true
	case "etfs", "etf":
		return CategoryEtfs, true
	default:
		return 0, false
	}
}

// Instrument is a tradable instrument known to the archive, identified by a
// lowercase id (e.g. "eurusd") and carrying the metadata needed to build
// download URLs and normalize raw ticks.
type Instrument struct {
	ID            string
	Name          string
	Description   string
	Category      Category
	PathFragment  string // archive URL component; often upper(ID) but not always
	DecimalFactor uint32
	StartTickDate *time.Time
}

// DecimalFactorF64 returns DecimalFactor as a float64 for price math.
func (i Instrument) DecimalFactorF64() float64 { return float64(i.DecimalFactor) }

// HasDataFor reports whether the instrument's archive is expected to have
// data at or after the given date.
func (i Instrument) HasDataFor(t time.Time) bool {
	return i.StartTickDate != nil && !t.Before(*i.StartTickDate)
}

func (i Instrument) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.ID)
}
