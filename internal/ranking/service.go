package ranking

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
)

// ServiceConfig holds configuration for the ranking service.
type ServiceConfig struct {
	// Logger for service operations.
	Logger zerolog.Logger

	// MaxCachedPasses bounds how many preference fingerprints keep a
	// computed pass in memory (default: 16). Most traffic uses default
	// preferences, so a small cache covers nearly everything.
	MaxCachedPasses int
}

// Service wraps the pure ranking engine with an immutable snapshot holder
// and a per-preference-fingerprint cache of computed passes. Swapping in a
// new snapshot discards every cached pass: percentiles computed over the
// old corpus would be wrong against the new one.
type Service struct {
	logger          zerolog.Logger
	maxCachedPasses int

	mu       sync.RWMutex
	snapshot *dataset.Snapshot
	cache    map[string]*cachedPass
}

type cachedPass struct {
	rankings   *TargetRankings
	computedAt time.Time
}

// NewService creates a new ranking service.
func NewService(cfg ServiceConfig) *Service {
	maxCached := cfg.MaxCachedPasses
	if maxCached == 0 {
		maxCached = 16
	}

	return &Service{
		logger:          cfg.Logger,
		maxCachedPasses: maxCached,
		cache:           make(map[string]*cachedPass),
	}
}

// SetSnapshot swaps in a new dataset snapshot and invalidates every cached
// pass.
func (s *Service) SetSnapshot(snap *dataset.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snap
	s.cache = make(map[string]*cachedPass)

	s.logger.Info().
		Str("version", snap.Version).
		Int("starts", len(snap.Starts)).
		Int("targets", len(snap.Targets)).
		Int("summits", len(snap.Summits)).
		Int("results", len(snap.Results)).
		Msg("dataset snapshot installed")
}

// Snapshot returns the current dataset snapshot.
func (s *Service) Snapshot() (*dataset.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, dataset.ErrNoSnapshot
	}
	return s.snapshot, nil
}

// Rankings returns the full enumeration pass for the given preferences,
// computing it on first use and caching it by preference fingerprint.
func (s *Service) Rankings(p prefs.UserPreferences) (*TargetRankings, error) {
	key := p.Fingerprint()

	s.mu.RLock()
	snap := s.snapshot
	if cached, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return cached.rankings, nil
	}
	s.mu.RUnlock()

	if snap == nil {
		return nil, dataset.ErrNoSnapshot
	}

	return s.compute(snap, p, key)
}

// compute runs the enumeration pass and stores it in the cache.
func (s *Service) compute(snap *dataset.Snapshot, p prefs.UserPreferences, key string) (*TargetRankings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after taking the write lock; another request may have
	// computed the same pass, and the snapshot may have been swapped.
	if cached, ok := s.cache[key]; ok {
		return cached.rankings, nil
	}
	if s.snapshot == nil {
		return nil, dataset.ErrNoSnapshot
	}
	snap = s.snapshot

	start := time.Now()
	rankings := ComputeAllTargetItineraries(snap, p)
	elapsed := time.Since(start)

	s.logger.Info().
		Str("fingerprint", key).
		Int("corpus_size", rankings.Percentiles.Size()).
		Dur("duration", elapsed).
		Msg("computed ranking pass")

	if len(s.cache) >= s.maxCachedPasses {
		s.evictOldest()
	}
	s.cache[key] = &cachedPass{rankings: rankings, computedAt: time.Now()}

	return rankings, nil
}

// evictOldest drops the least recently computed pass. Caller holds the
// write lock.
func (s *Service) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	for key, cached := range s.cache {
		if oldestKey == "" || cached.computedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = cached.computedAt
		}
	}
	if oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}

// RankTarget returns one trailhead's ranked, labeled options under the
// given preferences. Unknown trailheads are a not-found condition for the
// caller, not an internal fault.
func (s *Service) RankTarget(targetID string, p prefs.UserPreferences) ([]RankedOption, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if _, err := snap.Target(targetID); err != nil {
		return nil, err
	}

	rankings, err := s.Rankings(p)
	if err != nil {
		return nil, err
	}

	options := rankings.TargetCache[targetID]
	ranked := make([]RankedOption, len(options))
	for i, o := range options {
		ranked[i] = labeled(o)
	}
	return ranked, nil
}

// TopForStart returns one origin city's merged, labeled top options across
// all reachable trailheads. A limit ≤ 0 returns the full merged set.
func (s *Service) TopForStart(startID string, p prefs.UserPreferences, limit int) ([]RankedOption, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	rankings, err := s.Rankings(p)
	if err != nil {
		return nil, err
	}

	return TopForStart(snap, rankings, startID, limit)
}

// InvalidateCache clears all cached passes without touching the snapshot.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedPass)
}

// CacheStats contains ranking cache statistics.
type CacheStats struct {
	CachedPasses    int
	SnapshotVersion string
	SnapshotLoaded  time.Time
}

// Stats returns cache statistics.
func (s *Service) Stats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := CacheStats{CachedPasses: len(s.cache)}
	if s.snapshot != nil {
		stats.SnapshotVersion = s.snapshot.Version
		stats.SnapshotLoaded = s.snapshot.LoadedAt
	}
	return stats
}
