package ranking

import (
	"sort"

	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
)

// TargetRankings is the output of one full enumeration pass: the
// per-trailhead ranked option lists and the percentile lookup built over
// the complete corpus. Both are immutable once returned; a preference
// change means a fresh pass.
type TargetRankings struct {
	// TargetCache maps trailhead ID to its ranked ScoredOptions, best
	// first. Every option already carries its global percentile.
	TargetCache map[string][]ScoredOption

	// Percentiles is the score→percentile lookup over the full corpus.
	Percentiles *PercentileMap
}

// ComputeAllTargetItineraries enumerates, filters, and scores every
// outbound/route/viable-return combination in the snapshot, then runs a
// single percentile pass over the complete corpus. The percentile pass is
// deliberately global: computing it per trailhead would not reflect the
// true distribution.
//
// Ordering is deterministic: trailheads and starts are visited in lexical
// order, days in date order, and ties in the ranked output break on journey
// span then a stable lexical key.
func ComputeAllTargetItineraries(snap *dataset.Snapshot, p prefs.UserPreferences) *TargetRankings {
	raw := make(map[string][]ScoredOption, len(snap.Targets))
	var corpus []float64

	for _, targetID := range snap.SortedTargetIDs() {
		target := snap.Targets[targetID]

		results := snap.ResultsForTarget(targetID)
		sort.Slice(results, func(i, j int) bool { return results[i].StartID < results[j].StartID })

		var options []ScoredOption
		for _, res := range results {
			days := append([]dataset.DayItineraries(nil), res.Days...)
			sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

			for _, day := range days {
				candidates := res.ReturnsFor(day.Date)
				for ri := range target.Routes {
					route := target.Routes[ri]
					for _, outbound := range day.Outbounds {
						for _, ret := range ViableReturns(outbound, candidates, route) {
							score, ok := Score(outbound, ret, route, p)
							if !ok {
								continue
							}
							options = append(options, ScoredOption{
								StartID:  res.StartID,
								TargetID: targetID,
								Route:    route,
								Date:     day.Date,
								Outbound: outbound,
								Return:   ret,
								Score:    score,
							})
							corpus = append(corpus, score)
						}
					}
				}
			}
		}
		raw[targetID] = options
	}

	// Single global percentile pass over the complete corpus.
	percentiles := NewPercentileMap(corpus)

	cache := make(map[string][]ScoredOption, len(raw))
	for targetID, options := range raw {
		ranked := make([]ScoredOption, len(options))
		for i, o := range options {
			o.Percentile = percentiles.Percentile(o.Score)
			ranked[i] = o
		}
		sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
		cache[targetID] = ranked
	}

	return &TargetRankings{
		TargetCache: cache,
		Percentiles: percentiles,
	}
}
