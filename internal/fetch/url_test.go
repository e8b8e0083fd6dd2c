package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/factordynamics/paracas/internal/domain"
)

func TestTickURL(t *testing.T) {
	hour := domain.TruncateToHour(time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC))
	got := TickURL(BaseURL, "EURUSD", hour)
	// January is month 0 in the archive's own indexing.
	assert.Equal(t, "https://datafeed.dukascopy.com/datafeed/EURUSD/2024/00/15/07h_ticks.bi5", got)
}

func TestPlan(t *testing.T) {
	r := domain.SingleDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	plans := Plan(BaseURL, "EURUSD", r)
	require := assert.New(t)
	require.Len(plans, 24)
	require.Equal("https://datafeed.dukascopy.com/datafeed/EURUSD/2024/00/01/00h_ticks.bi5", plans[0].URL)
	require.Equal("https://datafeed.dukascopy.com/datafeed/EURUSD/2024/00/01/23h_ticks.bi5", plans[23].URL)
}
