package fetch

import "github.com/factordynamics/paracas/internal/domain"

// HourPlan pairs an hour slot with the archive URL that serves it.
type HourPlan struct {
	Hour domain.HourSlot
	URL  string
}

// Plan expands a DateRange into the ordered sequence of hour slots and the
// URLs that fetch them. It emits all 24 hours of every day in range; it does
// not prune weekend or holiday gaps a priori, since the archive signals
// those itself via a 404 (EmptyHour).
func Plan(baseURL, pathFragment string, r domain.DateRange) []HourPlan {
	hours := r.Hours()
	plans := make([]HourPlan, len(hours))
	for i, h := range hours {
		plans[i] = HourPlan{Hour: h, URL: TickURL(baseURL, pathFragment, h)}
	}
	return plans
}
