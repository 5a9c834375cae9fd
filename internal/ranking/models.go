// Package ranking implements the itinerary scoring and ranking engine:
// viability filtering of return options, preference-weighted scoring of
// outbound/return/route combinations, global percentile normalization, and
// per-start aggregation. The whole computation is a pure, synchronous batch
// pass over an immutable dataset snapshot; given identical inputs it
// produces byte-identical output.
package ranking

import (
	"strings"
	"time"

	"github.com/summitline/summitline/internal/dataset"
)

// ScoredOption is the result of scoring one outbound/return/route
// combination. It is never mutated after creation: rescoring means
// discarding and recomputing, because a percentile over a stale score set
// would be wrong.
type ScoredOption struct {
	// StartID is the origin city of both journeys.
	StartID string `json:"startId"`

	// TargetID is the trailhead the route starts from.
	TargetID string `json:"targetId"`

	// Route is the hike this combination serves.
	Route dataset.Route `json:"route"`

	// Date is the outbound calendar date (YYYY-MM-DD).
	Date string `json:"date"`

	// Outbound and Return are the transit journeys.
	Outbound dataset.TransitOption `json:"outbound"`
	Return   dataset.TransitOption `json:"return"`

	// Score is the raw preference-weighted score; higher is better.
	Score float64 `json:"score"`

	// Percentile is the rank of Score within the full corpus, in (0, 1].
	Percentile float64 `json:"percentile"`
}

// HikeWindow returns the time available for hiking: outbound arrival to
// return departure.
func (o ScoredOption) HikeWindow() time.Duration {
	return o.Return.Departure().Sub(o.Outbound.Arrival())
}

// JourneySpan returns the full door-to-door duration: outbound departure to
// return arrival.
func (o ScoredOption) JourneySpan() time.Duration {
	return o.Return.Arrival().Sub(o.Outbound.Departure())
}

// sortKey is the final, lexical tie-break identifier. Two options with
// equal score and equal journey span fall back to this so ranked output is
// reproducible across runs.
func (o ScoredOption) sortKey() string {
	return strings.Join([]string{
		o.StartID, o.TargetID, o.Route.Slug, o.Date, o.Outbound.Key(), o.Return.Key(),
	}, "/")
}

// less orders ScoredOptions: score descending, then shorter journey span,
// then lexical sort key.
func less(a, b ScoredOption) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if sa, sb := a.JourneySpan(), b.JourneySpan(); sa != sb {
		return sa < sb
	}
	return a.sortKey() < b.sortKey()
}

// RankedOption is a ScoredOption labeled for the rendering layer. The
// renderer surfaces only Bucket and Label to end users, never the raw
// score or exact percentile.
type RankedOption struct {
	ScoredOption

	// Bucket is the qualitative quartile bucket.
	Bucket Bucket `json:"bucket"`

	// Label is the human string, e.g. "Top 10%".
	Label string `json:"label"`
}

// labeled wraps a ScoredOption with its derived label.
func labeled(o ScoredOption) RankedOption {
	return RankedOption{
		ScoredOption: o,
		Bucket:       BucketFor(o.Percentile),
		Label:        Label(o.Percentile),
	}
}
