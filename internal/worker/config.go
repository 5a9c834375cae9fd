// Package worker provides background job processing for Summitline.
//
// The worker owns the dataset lifecycle: it fetches analyzer bundles on
// Pub/Sub triggers, persists them, and swaps the in-memory snapshot the
// ranking service computes against. The API process never fetches bundles
// itself.
package worker

import (
	"time"
)

// RefreshConfig holds configuration for the dataset refresh job.
type RefreshConfig struct {
	// Timeout bounds a full refresh cycle: fetch, persist, snapshot swap
	// and pre-warm. Default: 5 minutes (bundles are multi-megabyte and the
	// fetch client retries internally).
	Timeout time.Duration

	// Prewarm computes the default-preferences ranking pass immediately
	// after a snapshot swap so the first API request is not the one paying
	// for the full corpus enumeration. Default: true.
	Prewarm bool
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Timeout: 5 * time.Minute,
		Prewarm: true,
	}
}
