package ranking

import (
	"sort"

	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
)

// TopTargetsPerStart runs a full enumeration pass and then, for every
// origin city, merges the ranked options of all trailheads reachable from
// it (those the analyzer produced a result for), re-sorts the merged set by
// the same ordering rule as the per-trailhead lists, and truncates to
// limit. A limit ≤ 0 means unbounded and returns the full merged set.
//
// Emitted entries carry the trailhead, route, and summit references a
// renderer needs without re-querying the enumerator.
func TopTargetsPerStart(snap *dataset.Snapshot, p prefs.UserPreferences, limit int) map[string][]RankedOption {
	rankings := ComputeAllTargetItineraries(snap, p)

	out := make(map[string][]RankedOption, len(snap.Starts))
	for _, startID := range snap.SortedStartIDs() {
		out[startID] = mergeForStart(snap, rankings, startID, limit)
	}
	return out
}

// TopForStart merges one origin city's options from an existing enumeration
// pass.
func TopForStart(snap *dataset.Snapshot, rankings *TargetRankings, startID string, limit int) ([]RankedOption, error) {
	if _, err := snap.Start(startID); err != nil {
		return nil, err
	}
	return mergeForStart(snap, rankings, startID, limit), nil
}

func mergeForStart(snap *dataset.Snapshot, rankings *TargetRankings, startID string, limit int) []RankedOption {
	var merged []ScoredOption
	for _, res := range snap.ResultsForStart(startID) {
		for _, o := range rankings.TargetCache[res.TargetID] {
			if o.StartID == startID {
				merged = append(merged, o)
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return less(merged[i], merged[j]) })

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	ranked := make([]RankedOption, len(merged))
	for i, o := range merged {
		ranked[i] = labeled(o)
	}
	return ranked
}
