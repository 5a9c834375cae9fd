package ranking

import "sort"

// PercentileMap maps raw scores to their rank-based percentile within one
// complete scoring pass. The percentile of a score is the fraction of the
// corpus with a score less than or equal to it, so ties share a percentile,
// percentile is monotonic in score, and a corpus of size one maps its only
// score to 1.0.
//
// Lookups never key a map by raw floating-point value computed elsewhere:
// the primary path is a binary search over the sorted corpus, with an exact
// memo only for the corpus's own values. Build is O(n log n); lookups are
// O(1) amortized for corpus scores and O(log n) otherwise.
type PercentileMap struct {
	sorted []float64
	exact  map[float64]float64
}

// NewPercentileMap builds a percentile lookup over the full score corpus.
// An empty corpus yields a valid map that is simply never queried.
func NewPercentileMap(scores []float64) *PercentileMap {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	m := &PercentileMap{
		sorted: sorted,
		exact:  make(map[float64]float64, len(sorted)),
	}
	for _, s := range sorted {
		if _, ok := m.exact[s]; !ok {
			m.exact[s] = m.search(s)
		}
	}
	return m
}

// Percentile returns the percentile of a raw score in (0, 1].
func (m *PercentileMap) Percentile(score float64) float64 {
	if len(m.sorted) == 0 {
		return 0
	}
	if p, ok := m.exact[score]; ok {
		return p
	}
	return m.search(score)
}

// search computes the percentile by binary search: the index of the first
// corpus entry greater than the score is the count of entries ≤ it.
func (m *PercentileMap) search(score float64) float64 {
	i := sort.Search(len(m.sorted), func(i int) bool { return m.sorted[i] > score })
	return float64(i) / float64(len(m.sorted))
}

// Size returns the corpus size.
func (m *PercentileMap) Size() int {
	return len(m.sorted)
}
