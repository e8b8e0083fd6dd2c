package fetch

import (
	"fmt"

	"github.com/factordynamics/paracas/internal/domain"
)

// BaseURL is the root of the Dukascopy historical data feed.
const BaseURL = "https://datafeed.dukascopy.com/datafeed"

// TickURL builds the archive URL for one hour of one instrument. Month is
// zero-based in the archive's own convention, so the caller's one-based
// calendar month is decremented before formatting.
func TickURL(baseURL, pathFragment string, hour domain.HourSlot) string {
	t := hour.Time()
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%02dh_ticks.bi5",
		baseURL,
		pathFragment,
		t.Year(),
		int(t.Month())-1,
		t.Day(),
		t.Hour(),
	)
}
