package prefs

import "context"

// Repository persists per-user preferences.
type Repository interface {
	// Get retrieves the preferences record for a user.
	// Returns ErrPreferencesNotFound if the user has saved none.
	Get(ctx context.Context, userID string) (*Record, error)

	// Upsert stores the preferences record for a user.
	Upsert(ctx context.Context, rec *Record) error

	// Delete removes a user's saved preferences.
	Delete(ctx context.Context, userID string) error
}
