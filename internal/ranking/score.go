package ranking

import (
	"time"

	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
)

// Score computes the raw score of one outbound/return/route combination
// under the given preferences. The second return value is false when the
// combination is excluded outright: cycling legs while cycling is
// disallowed, a route with no usable minimum duration, or a degenerate time
// window. Excluded combinations never enter the percentile corpus.
//
// The function is pure: identical arguments always produce an identical
// score. The percentile normalizer depends on this.
//
// The score is a weighted sum of four sub-scores, each in [0, 1]:
//
//	departureFit — 1 at or after prefs.ranking.earliestDeparture, falling
//	               linearly to 0 at midnight for earlier departures
//	hikeFit      — peaks when the hike window is 1.5x the route's minimum
//	               duration, lower when tight (toward 1x) or wasteful (4x+)
//	bufferFit    — peaks at one spare hour after the expected hike end,
//	               decaying for excessive buffers
//	journeyFit   — fraction of the door-to-door span spent hiking
//
// Weights are non-negative and sum to prefs.WeightTotal, so raw scores stay
// comparably scaled across runs regardless of user tuning.
func Score(outbound, ret dataset.TransitOption, route dataset.Route, p prefs.UserPreferences) (float64, bool) {
	if !p.Ranking.AllowCycling {
		if outbound.HasMode(dataset.ModeBicycle) || ret.HasMode(dataset.ModeBicycle) {
			return 0, false
		}
	}

	// A route without a minimum duration cannot be scored; exclude just
	// this combination rather than aborting the enumeration pass.
	if route.MinDurationHours <= 0 {
		return 0, false
	}

	window := ret.Departure().Sub(outbound.Arrival())
	span := ret.Arrival().Sub(outbound.Departure())
	if window <= 0 || span <= 0 {
		return 0, false
	}

	w := p.Ranking.Weights
	score := w.DepartureFit*departureFit(outbound.Departure(), p.Ranking.EarliestDeparture) +
		w.HikeFit*hikeFit(window.Hours(), route.MinDurationHours) +
		w.BufferFit*bufferFit(window.Hours()-route.MinDurationHours) +
		w.JourneyFit*journeyFit(route.MinDurationHours, span.Hours())

	return score, true
}

// departureFit penalizes outbound departures earlier than the user's
// earliest acceptable hour. At or after the threshold the fit is 1; before
// it the fit falls linearly, reaching 0 at midnight. Continuous, never a
// hard cutoff: an early itinerary stays eligible, just ranked lower.
func departureFit(departure time.Time, earliest float64) float64 {
	if earliest <= 0 {
		return 1
	}
	h := float64(departure.Hour()) + float64(departure.Minute())/60
	if h >= earliest {
		return 1
	}
	return h / earliest
}

// hikeFit rewards hike windows that fit the route comfortably. The ratio
// window/minimum peaks at 1.5 (unhurried but not idle); below that the fit
// drops toward the viability floor at 0.5, above it the fit decays toward a
// 0.25 floor at 4x and beyond.
func hikeFit(windowHours, minDurationHours float64) float64 {
	ratio := windowHours / minDurationHours
	switch {
	case ratio <= 0.5:
		return 0
	case ratio <= 1.5:
		return ratio - 0.5
	case ratio <= 4.0:
		return 1 - 0.3*(ratio-1.5)
	default:
		return 0.25
	}
}

// bufferFit rewards a generous but not excessive buffer between the
// expected hike end and the return departure. One spare hour is ideal;
// beyond that the fit decays slowly to a 0.2 floor.
func bufferFit(bufferHours float64) float64 {
	switch {
	case bufferHours <= 0:
		return 0
	case bufferHours <= 1:
		return bufferHours
	default:
		fit := 1 - (bufferHours-1)/6
		if fit < 0.2 {
			return 0.2
		}
		return fit
	}
}

// journeyFit penalizes combinations whose door-to-door span is long
// relative to the hike itself: the fit is the fraction of that span spent
// hiking, clamped to [0, 1].
func journeyFit(minDurationHours, spanHours float64) float64 {
	fit := minDurationHours / spanHours
	if fit > 1 {
		return 1
	}
	return fit
}
