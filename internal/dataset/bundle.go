package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Bundle is the wire format published by the timetable analyzer: the full
// catalog plus one Result per analyzed (start, trailhead) pair.
type Bundle struct {
	Version string      `json:"version"`
	Starts  []Start     `json:"starts"`
	Targets []Trailhead `json:"targets"`
	Summits []Summit    `json:"summits"`
	Results []Result    `json:"results"`
}

// DecodeBundle reads and validates a JSON bundle from r.
func DecodeBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validate bundle: %w", err)
	}
	return &b, nil
}

// Validate checks referential integrity: every result references a known
// start and trailhead, every route references known summits, and every
// transit option satisfies the leg-sequence invariants.
func (b *Bundle) Validate() error {
	starts := make(map[string]bool, len(b.Starts))
	for _, s := range b.Starts {
		if s.ID == "" {
			return fmt.Errorf("start %q has empty id", s.Name)
		}
		starts[s.ID] = true
	}

	summits := make(map[int64]bool, len(b.Summits))
	for _, m := range b.Summits {
		summits[m.ID] = true
	}

	targets := make(map[string]bool, len(b.Targets))
	for _, t := range b.Targets {
		if t.ID == "" {
			return fmt.Errorf("trailhead %q has empty id", t.Name)
		}
		targets[t.ID] = true
		for _, rt := range t.Routes {
			for _, id := range rt.SummitIDs {
				if !summits[id] {
					return fmt.Errorf("trailhead %s route %q references unknown summit %d", t.ID, rt.Name, id)
				}
			}
		}
	}

	for _, res := range b.Results {
		if !starts[res.StartID] {
			return fmt.Errorf("result references unknown start %q", res.StartID)
		}
		if !targets[res.TargetID] {
			return fmt.Errorf("result references unknown trailhead %q", res.TargetID)
		}
		for _, day := range res.Days {
			if _, err := time.Parse("2006-01-02", day.Date); err != nil {
				return fmt.Errorf("result %s/%s has bad date %q", res.StartID, res.TargetID, day.Date)
			}
			for _, opt := range day.Outbounds {
				if err := opt.Validate(); err != nil {
					return fmt.Errorf("result %s/%s outbound on %s: %w", res.StartID, res.TargetID, day.Date, err)
				}
			}
			for _, opt := range day.Returns {
				if err := opt.Validate(); err != nil {
					return fmt.Errorf("result %s/%s return on %s: %w", res.StartID, res.TargetID, day.Date, err)
				}
			}
		}
	}

	return nil
}

// Snapshot builds an immutable Snapshot from the bundle.
func (b *Bundle) Snapshot() *Snapshot {
	snap := &Snapshot{
		Version:  b.Version,
		LoadedAt: time.Now(),
		Starts:   make(map[string]Start, len(b.Starts)),
		Targets:  make(map[string]*Trailhead, len(b.Targets)),
		Summits:  make(map[int64]Summit, len(b.Summits)),
		Results:  b.Results,
	}
	for _, s := range b.Starts {
		snap.Starts[s.ID] = s
	}
	for i := range b.Targets {
		t := b.Targets[i]
		snap.Targets[t.ID] = &t
	}
	for _, m := range b.Summits {
		snap.Summits[m.ID] = m
	}
	return snap
}
