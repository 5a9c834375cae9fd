package ranking

import (
	"time"

	"github.com/summitline/summitline/internal/dataset"
)

// ViableReturns filters candidate return options for one outbound and one
// route: a return is kept iff it departs no earlier than the outbound
// arrives, and the gap between the two is at least half the route's minimum
// expected duration. Leg times are absolute timestamps, so an overnight gap
// (arrive 20:00, depart 08:00 the next day) is an ordinary 12-hour window.
//
// Candidate ordering is preserved; the result is a subset, never a
// reordering. An empty result is a valid outcome and simply excludes the
// outbound from scoring for this route.
func ViableReturns(outbound dataset.TransitOption, candidates []dataset.TransitOption, route dataset.Route) []dataset.TransitOption {
	minGap := time.Duration(0.5 * route.MinDurationHours * float64(time.Hour))
	arrival := outbound.Arrival()

	viable := make([]dataset.TransitOption, 0, len(candidates))
	for _, ret := range candidates {
		gap := ret.Departure().Sub(arrival)
		if gap < 0 {
			continue
		}
		if gap < minGap {
			continue
		}
		viable = append(viable, ret)
	}
	return viable
}
