// Package instrument provides a minimal, read-only lookup of Dukascopy
// instrument metadata (id -> decimal factor, category, display name).
//
// This is deliberately small: full registry management (search, browsing,
// refreshing from a remote catalog) is treated as an external collaborator
// and is not part of this package's job. Callers needing an instrument this
// registry doesn't know about can construct a domain.Instrument directly.
package instrument

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/factordynamics/paracas/internal/domain"
)

var (
	once     sync.Once
	registry map[string]domain.Instrument
)

func load() map[string]domain.Instrument {
	start2003 := time.Date(2003, 5, 5, 0, 0, 0, 0, time.UTC)
	start2009 := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	start2013 := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []domain.Instrument{
		{ID: "eurusd", Name: "EUR/USD", Description: "Euro vs US Dollar", Category: domain.CategoryForex, DecimalFactor: 100000, StartTickDate: &start2003},
		{ID: "gbpusd", Name: "GBP/USD", Description: "British Pound vs US Dollar", Category: domain.CategoryForex, DecimalFactor: 100000, StartTickDate: &start2003},
		{ID: "usdjpy", Name: "USD/JPY", Description: "US Dollar vs Japanese Yen", Category: domain.CategoryForex, DecimalFactor: 1000, StartTickDate: &start2003},
		{ID: "audusd", Name: "AUD/USD", Description: "Australian Dollar vs US Dollar", Category: domain.CategoryForex, DecimalFactor: 100000, StartTickDate: &start2003},
		{ID: "usdchf", Name: "USD/CHF", Description: "US Dollar vs Swiss Franc", Category: domain.CategoryForex, DecimalFactor: 100000, StartTickDate: &start2003},
		{ID: "xauusd", Name: "Gold/USD", Description: "Spot Gold vs US Dollar", Category: domain.CategoryMetals, DecimalFactor: 1000, StartTickDate: &start2003},
		{ID: "xagusd", Name: "Silver/USD", Description: "Spot Silver vs US Dollar", Category: domain.CategoryMetals, DecimalFactor: 1000, StartTickDate: &start2003},
		{ID: "btcusd", Name: "BTC/USD", Description: "Bitcoin vs US Dollar", Category: domain.CategoryCrypto, DecimalFactor: 100, StartTickDate: &start2013},
		{ID: "ethusd", Name: "ETH/USD", Description: "Ethereum vs US Dollar", Category: domain.CategoryCrypto, DecimalFactor: 100, StartTickDate: &start2013},
		{ID: "usa500idx", Name: "S&P 500", Description: "US SPX 500 Cash Index", Category: domain.CategoryIndices, DecimalFactor: 100, StartTickDate: &start2009},
		{ID: "usa30idx", Name: "Dow Jones 30", Description: "US Wall St 30 Cash Index", Category: domain.CategoryIndices, DecimalFactor: 100, StartTickDate: &start2009},
		{ID: "deu40idx", Name: "DAX 40", Description: "Germany 40 Cash Index", Category: domain.CategoryIndices, DecimalFactor: 100, StartTickDate: &start2009},
		{ID: "brentcmdusd", Name: "Brent Crude Oil", Description: "Brent Crude Oil vs US Dollar", Category: domain.CategoryCommodities, DecimalFactor: 1000, StartTickDate: &start2009},
		{ID: "ustbond", Name: "US T-Bond", Description: "US Treasury Bond Futures", Category: domain.CategoryBonds, DecimalFactor: 1000, StartTickDate: &start2009},
		{ID: "usa30etf", Name: "Dow Jones ETF", Description: "SPDR Dow Jones Industrial Average ETF", Category: domain.CategoryEtfs, DecimalFactor: 1000, StartTickDate: &start2009},
	}

	m := make(map[string]domain.Instrument, len(entries))
	for _, ins := range entries {
		ins.PathFragment = strings.ToUpper(ins.ID)
		m[ins.ID] = ins
	}
	return m
}

func registryInstance() map[string]domain.Instrument {
	once.Do(func() { registry = load() })
	return registry
}

// Get looks up an instrument by id, case-insensitively. ok is false if the
// id is unknown.
func Get(id string) (domain.Instrument, bool) {
	ins, ok := registryInstance()[strings.ToLower(strings.TrimSpace(id))]
	return ins, ok
}

// MustGet is like Get but returns an error instead of a boolean, convenient
// at the CLI boundary.
func MustGet(id string) (domain.Instrument, error) {
	ins, ok := Get(id)
	if !ok {
		return domain.Instrument{}, fmt.Errorf("unknown instrument: %s", id)
	}
	return ins, nil
}

// All returns every registered instrument.
func All() []domain.Instrument {
	reg := registryInstance()
	out := make([]domain.Instrument, 0, len(reg))
	for _, ins := range reg {
		out = append(out, ins)
	}
	return out
}

// ByCategory returns every registered instrument in the given category.
func ByCategory(cat domain.Category) []domain.Instrument {
	var out []domain.Instrument
	for _, ins := range registryInstance() {
		if ins.Category == cat {
			out = append(out, ins)
		}
	}
	return out
}
