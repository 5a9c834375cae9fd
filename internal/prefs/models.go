// Package prefs provides the validated user preferences consumed by the
// ranking core, and their per-user persistence. The core never touches
// storage itself; it receives an already-validated UserPreferences value.
package prefs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// Preference errors.
var (
	ErrPreferencesNotFound = errors.New("preferences not found")
)

// SchemaVersion is the current preferences schema version. Stored alongside
// saved preferences so stale blobs from older clients can be discarded.
const SchemaVersion = 1

// WeightTotal is the fixed sum all scoring weights must add up to, keeping
// raw scores comparably scaled across runs regardless of user tuning.
const WeightTotal = 10.0

// Weights are the per-sub-score weights of the scoring function. Each is a
// non-negative real; together they must sum to WeightTotal.
type Weights struct {
	// DepartureFit weighs the penalty for departing before the user's
	// earliest acceptable hour.
	DepartureFit float64 `json:"departureFit"`

	// HikeFit weighs how comfortably the route's minimum duration sits in
	// the window between outbound arrival and return departure.
	HikeFit float64 `json:"hikeFit"`

	// BufferFit weighs the spare time after the expected hike end.
	BufferFit float64 `json:"bufferFit"`

	// JourneyFit weighs total door-to-door time relative to time hiking.
	JourneyFit float64 `json:"journeyFit"`
}

// DefaultWeights returns the documented default weight distribution.
func DefaultWeights() Weights {
	return Weights{
		DepartureFit: 2,
		HikeFit:      4,
		BufferFit:    2,
		JourneyFit:   2,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.DepartureFit + w.HikeFit + w.BufferFit + w.JourneyFit
}

// Ranking holds the preference knobs that affect scoring.
type Ranking struct {
	// AllowCycling permits itineraries containing cycling legs. When false,
	// any combination touching a cycling leg is excluded outright.
	AllowCycling bool `json:"allowCycling"`

	// EarliestDeparture is the hour of day (0-24) before which outbound
	// departures are penalized. The penalty is continuous, not a cutoff.
	EarliestDeparture float64 `json:"earliestDeparture"`

	// Weights tune the scoring sub-score combination.
	Weights Weights `json:"weights"`
}

// UI holds display-only options. They never influence scoring.
type UI struct {
	// DistanceUnit is "km" or "mi".
	DistanceUnit string `json:"distanceUnit"`

	// ShowLabels toggles the qualitative percentile labels in listings.
	ShowLabels bool `json:"showLabels"`
}

// UserPreferences is the validated, versioned preferences object.
type UserPreferences struct {
	Version int     `json:"version"`
	Ranking Ranking `json:"ranking"`
	UI      UI      `json:"ui"`
}

// Defaults returns the preferences applied when a user has saved nothing,
// or when a saved blob fails validation.
func Defaults() UserPreferences {
	return UserPreferences{
		Version: SchemaVersion,
		Ranking: Ranking{
			AllowCycling:      true,
			EarliestDeparture: 6,
			Weights:           DefaultWeights(),
		},
		UI: UI{
			DistanceUnit: "km",
			ShowLabels:   true,
		},
	}
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports why a preferences object was rejected. Rejection
// is all-or-nothing: there is no partial acceptance of a bad object.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("preferences validation failed (%d field errors)", len(e.Errors))
}

// Validate checks the preferences against the schema. Any field out of
// range invalidates the whole object.
func (p UserPreferences) Validate() error {
	var errs []FieldError

	if p.Version != SchemaVersion {
		errs = append(errs, FieldError{Field: "version", Message: fmt.Sprintf("must be %d", SchemaVersion)})
	}

	if p.Ranking.EarliestDeparture < 0 || p.Ranking.EarliestDeparture > 24 {
		errs = append(errs, FieldError{Field: "ranking.earliestDeparture", Message: "must be between 0 and 24"})
	}

	w := p.Ranking.Weights
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"ranking.weights.departureFit", w.DepartureFit},
		{"ranking.weights.hikeFit", w.HikeFit},
		{"ranking.weights.bufferFit", w.BufferFit},
		{"ranking.weights.journeyFit", w.JourneyFit},
	} {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			errs = append(errs, FieldError{Field: f.name, Message: "must be a non-negative number"})
		}
	}
	if math.Abs(w.Sum()-WeightTotal) > 1e-9 {
		errs = append(errs, FieldError{
			Field:   "ranking.weights",
			Message: fmt.Sprintf("must sum to %g, got %g", WeightTotal, w.Sum()),
		})
	}

	if p.UI.DistanceUnit != "km" && p.UI.DistanceUnit != "mi" {
		errs = append(errs, FieldError{Field: "ui.distanceUnit", Message: `must be "km" or "mi"`})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// Parse decodes a preferences JSON document with strict schema enforcement:
// unknown fields anywhere in the object, or fields of the wrong type,
// invalidate the whole document.
func Parse(data []byte) (UserPreferences, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p UserPreferences
	if err := dec.Decode(&p); err != nil {
		return UserPreferences{}, &ValidationError{Errors: []FieldError{
			{Field: "", Message: "malformed preferences document: " + err.Error()},
		}}
	}
	if dec.More() {
		return UserPreferences{}, &ValidationError{Errors: []FieldError{
			{Field: "", Message: "trailing data after preferences document"},
		}}
	}
	if err := p.Validate(); err != nil {
		return UserPreferences{}, err
	}
	return p, nil
}

// Fingerprint returns a stable identity for the scoring-relevant part of
// the preferences. Used as a ranking cache key; UI options are excluded
// because they never affect scores.
func (p UserPreferences) Fingerprint() string {
	return fmt.Sprintf("v%d:cycle=%t:earliest=%g:w=%g/%g/%g/%g",
		p.Version,
		p.Ranking.AllowCycling,
		p.Ranking.EarliestDeparture,
		p.Ranking.Weights.DepartureFit,
		p.Ranking.Weights.HikeFit,
		p.Ranking.Weights.BufferFit,
		p.Ranking.Weights.JourneyFit,
	)
}

// Record is a persisted preferences document for one user.
type Record struct {
	UserID      string
	Preferences UserPreferences
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
