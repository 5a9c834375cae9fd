package ranking

import (
	"fmt"
	"math"
)

// Bucket is the qualitative quartile label the rendering layer surfaces
// instead of raw scores or percentiles.
type Bucket string

const (
	BucketTop    Bucket = "top"    // percentile ≥ 0.75
	BucketGood   Bucket = "good"   // percentile ≥ 0.50
	BucketFair   Bucket = "fair"   // percentile ≥ 0.25
	BucketBottom Bucket = "bottom" // everything else
)

// BucketFor returns the quartile bucket for a percentile.
func BucketFor(percentile float64) Bucket {
	switch {
	case percentile >= 0.75:
		return BucketTop
	case percentile >= 0.50:
		return BucketGood
	case percentile >= 0.25:
		return BucketFair
	default:
		return BucketBottom
	}
}

// Label returns the human percentile string: "Top N%" or "Bottom N%" with
// N = round((1 − percentile) × 100). "Bottom" is chosen only when N
// exceeds 50, so an exact median reads "Top 50%".
func Label(percentile float64) string {
	n := int(math.Round((1 - percentile) * 100))
	if n > 50 {
		return fmt.Sprintf("Bottom %d%%", n)
	}
	return fmt.Sprintf("Top %d%%", n)
}
