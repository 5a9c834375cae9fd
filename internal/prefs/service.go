package prefs

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Service provides the preferences store collaborator: load, save, clear.
// Load never fails toward the caller — a missing or corrupt record falls
// back to Defaults with a diagnostic logged, so the ranking core always
// receives a valid object.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new preferences service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Load returns the user's saved preferences, or Defaults when none are
// saved or the saved blob no longer passes schema validation.
func (s *Service) Load(ctx context.Context, userID string) UserPreferences {
	rec, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrPreferencesNotFound) {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to load preferences, using defaults")
		}
		return Defaults()
	}

	if err := rec.Preferences.Validate(); err != nil {
		// Schema drift: an old or hand-edited blob. Discard, never surface.
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("stored preferences failed validation, using defaults")
		return Defaults()
	}

	return rec.Preferences
}

// Save validates and stores preferences for a user. Invalid preferences
// are rejected whole; nothing is persisted.
func (s *Service) Save(ctx context.Context, userID string, p UserPreferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now()
	rec := &Record{
		UserID:      userID,
		Preferences: p,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if existing, err := s.repo.Get(ctx, userID); err == nil {
		rec.CreatedAt = existing.CreatedAt
	}

	return s.repo.Upsert(ctx, rec)
}

// Clear removes a user's saved preferences, reverting them to Defaults.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
