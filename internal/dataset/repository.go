package dataset

import "context"

// Repository persists fetched bundles so the API can come up with the last
// known dataset before the worker's next refresh.
type Repository interface {
	// SaveBundle stores a validated bundle as the latest dataset.
	SaveBundle(ctx context.Context, b *Bundle) error

	// LatestBundle retrieves the most recently stored bundle.
	// Returns ErrNoSnapshot if nothing has been stored yet.
	LatestBundle(ctx context.Context) (*Bundle, error)
}
