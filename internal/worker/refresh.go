package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/summitline/summitline/internal/api/middleware"
	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
	"github.com/summitline/summitline/internal/ranking"
)

// BundleFetcher downloads and validates an analyzer bundle.
// *dataset.Client is the production implementation.
type BundleFetcher interface {
	Fetch(ctx context.Context) (*dataset.Bundle, error)
}

// RefreshJob fetches a fresh dataset bundle, persists it, and swaps the
// ranking service's snapshot. A failed refresh leaves the previous snapshot
// in place; the API keeps serving stale data rather than no data.
type RefreshJob struct {
	config         RefreshConfig
	logger         zerolog.Logger
	fetcher        BundleFetcher
	repo           dataset.Repository
	rankingService *ranking.Service

	// providerMetrics is optional; nil disables instrumentation.
	providerMetrics *middleware.ProviderMetrics

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRefreshes    int64
	SuccessfulRefresh int64
	FailedRefreshes   int64
	PersistenceErrors int64

	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	LastDatasetVersion  string
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config          RefreshConfig
	Logger          zerolog.Logger
	Fetcher         BundleFetcher
	Repository      dataset.Repository
	RankingService  *ranking.Service
	ProviderMetrics *middleware.ProviderMetrics
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if config == (RefreshConfig{}) {
		config = DefaultRefreshConfig()
	}

	return &RefreshJob{
		config:          config,
		logger:          cfg.Logger,
		fetcher:         cfg.Fetcher,
		repo:            cfg.Repository,
		rankingService:  cfg.RankingService,
		providerMetrics: cfg.ProviderMetrics,
		metrics:         &RefreshMetrics{},
	}
}

// RefreshResult contains the result of one refresh cycle.
type RefreshResult struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// DatasetVersion is the version of the bundle that was installed.
	DatasetVersion string

	// Targets, Starts and Results count the installed snapshot's contents.
	Targets int
	Starts  int
	Results int

	// Persisted reports whether the bundle was stored in the repository.
	// A persistence failure does not block the snapshot swap.
	Persisted bool

	// Prewarmed reports whether the default-preferences ranking pass was
	// computed after the swap.
	Prewarmed bool
}

// Run executes one refresh cycle. On any fetch error the ranking service's
// current snapshot is untouched.
func (j *RefreshJob) Run(ctx context.Context) (*RefreshResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	j.logger.Info().Msg("starting dataset refresh")

	bundle, err := j.fetchBundle(ctx)
	if err != nil {
		j.recordFailure(startTime)
		j.logger.Error().Err(err).Msg("dataset refresh failed, keeping current snapshot")
		return nil, fmt.Errorf("fetch bundle: %w", err)
	}

	result := &RefreshResult{
		StartTime:      startTime,
		DatasetVersion: bundle.Version,
	}

	// Persist before swapping so a worker restart comes back up with this
	// dataset. A storage failure is logged but does not waste the fetch.
	if err := j.repo.SaveBundle(ctx, bundle); err != nil {
		j.metrics.mu.Lock()
		j.metrics.PersistenceErrors++
		j.metrics.mu.Unlock()
		j.logger.Warn().Err(err).Str("version", bundle.Version).Msg("failed to persist bundle")
	} else {
		result.Persisted = true
	}

	snap := bundle.Snapshot()
	j.rankingService.SetSnapshot(snap)

	result.Targets = len(snap.Targets)
	result.Starts = len(snap.Starts)
	result.Results = len(snap.Results)

	if j.config.Prewarm {
		if _, err := j.rankingService.Rankings(prefs.Defaults()); err != nil {
			j.logger.Warn().Err(err).Msg("pre-warm ranking pass failed")
		} else {
			result.Prewarmed = true
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)
	j.recordSuccess(result)

	j.logger.Info().
		Str("version", result.DatasetVersion).
		Int("targets", result.Targets).
		Int("starts", result.Starts).
		Int("results", result.Results).
		Bool("persisted", result.Persisted).
		Bool("prewarmed", result.Prewarmed).
		Dur("duration", result.Duration).
		Msg("dataset refresh completed")

	return result, nil
}

func (j *RefreshJob) fetchBundle(ctx context.Context) (*dataset.Bundle, error) {
	fetchStart := time.Now()
	bundle, err := j.fetcher.Fetch(ctx)
	if j.providerMetrics != nil {
		j.providerMetrics.RecordRequest("analyzer", "fetch-bundle", time.Since(fetchStart), err)
	}
	return bundle, err
}

// Bootstrap loads the last persisted bundle into the ranking service.
// It is called at startup so the worker (and API) can serve before the
// first Pub/Sub triggered refresh. Returns dataset.ErrNoSnapshot when
// nothing has been stored yet.
func (j *RefreshJob) Bootstrap(ctx context.Context) error {
	bundle, err := j.repo.LatestBundle(ctx)
	if err != nil {
		return err
	}

	snap := bundle.Snapshot()
	j.rankingService.SetSnapshot(snap)

	j.logger.Info().
		Str("version", snap.Version).
		Int("targets", len(snap.Targets)).
		Msg("bootstrapped snapshot from stored bundle")
	return nil
}

func (j *RefreshJob) recordSuccess(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	j.metrics.SuccessfulRefresh++
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.LastDatasetVersion = result.DatasetVersion
}

func (j *RefreshJob) recordFailure(startTime time.Time) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	j.metrics.FailedRefreshes++
	j.metrics.LastRefreshAt = time.Now()
	j.metrics.LastRefreshDuration = time.Since(startTime)
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		PersistenceErrors:   j.metrics.PersistenceErrors,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		LastDatasetVersion:  j.metrics.LastDatasetVersion,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_refreshes":       m.TotalRefreshes,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"persistence_errors":    m.PersistenceErrors,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"last_dataset_version":  m.LastDatasetVersion,
	}
}
