// Package dataset provides the immutable input collaborators for ranking:
// the summit/trailhead catalog and the per-day transit itineraries produced
// by the upstream timetable analyzer. A Snapshot is loaded once and passed
// into every ranking call; nothing in this package mutates it afterwards.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Dataset errors.
var (
	ErrStartNotFound  = errors.New("starting place not found")
	ErrTargetNotFound = errors.New("trailhead not found")
	ErrSummitNotFound = errors.New("summit not found")
	ErrNoSnapshot     = errors.New("no dataset snapshot loaded")
)

// Mode represents a transport mode on a transit leg.
type Mode string

const (
	ModeRail    Mode = "RAIL"
	ModeBus     Mode = "BUS"
	ModeCoach   Mode = "COACH"
	ModeFerry   Mode = "FERRY"
	ModeTram    Mode = "TRAM"
	ModeBicycle Mode = "BICYCLE"
	ModeWalk    Mode = "WALK"
)

// LngLat is a geographic coordinate in longitude/latitude order, matching
// the analyzer's bundle encoding.
type LngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Summit is a hike destination peak.
type Summit struct {
	// ID is the stable numeric identifier from the hill database.
	ID int64 `json:"id"`

	// Name is the display name (e.g., "Ben Lomond").
	Name string `json:"name"`

	// Slug is the URL-safe identifier used by the rendering layer.
	Slug string `json:"slug"`
}

// Route is a hike path starting and ending at one trailhead, covering one
// or more summits. A Route belongs to exactly one Trailhead.
type Route struct {
	// Name is the route's display name.
	Name string `json:"name"`

	// Slug is the URL-safe identifier.
	Slug string `json:"slug"`

	// SummitIDs reference the summits this route covers (non-owning).
	SummitIDs []int64 `json:"summitIds"`

	// DistanceKm is the route length in kilometres.
	DistanceKm float64 `json:"distanceKm"`

	// AscentM is the total ascent in metres.
	AscentM float64 `json:"ascentM"`

	// MinDurationHours is the minimum expected hike duration. The viability
	// filter requires at least half of this between outbound arrival and
	// return departure.
	MinDurationHours float64 `json:"minDurationHours"`
}

// Trailhead is a location where hikes begin and end and where transit
// access is evaluated. It exclusively owns its Routes.
type Trailhead struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	LngLat      LngLat  `json:"lngLat"`
	Routes      []Route `json:"routes"`
}

// Start is an origin city transit journeys are evaluated from.
type Start struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	LngLat LngLat `json:"lngLat"`
}

// TransitLeg is one transport segment of a journey.
type TransitLeg struct {
	Mode        Mode      `json:"mode"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	AgencyName  string    `json:"agencyName,omitempty"`
	RouteName   string    `json:"routeName,omitempty"`
}

// TransitOption is one complete outbound or return journey composed of
// ordered legs. Legs are contiguous: each leg's destination matches the
// next leg's origin, and arrivals never precede the next departure.
type TransitOption struct {
	Legs []TransitLeg `json:"legs"`
}

// Departure returns the overall departure time (first leg).
func (o TransitOption) Departure() time.Time {
	if len(o.Legs) == 0 {
		return time.Time{}
	}
	return o.Legs[0].Departure
}

// Arrival returns the overall arrival time (last leg).
func (o TransitOption) Arrival() time.Time {
	if len(o.Legs) == 0 {
		return time.Time{}
	}
	return o.Legs[len(o.Legs)-1].Arrival
}

// Modes returns the set of transport modes used across all legs.
func (o TransitOption) Modes() map[Mode]bool {
	modes := make(map[Mode]bool, len(o.Legs))
	for _, l := range o.Legs {
		modes[l.Mode] = true
	}
	return modes
}

// HasMode reports whether any leg uses the given mode.
func (o TransitOption) HasMode(m Mode) bool {
	for _, l := range o.Legs {
		if l.Mode == m {
			return true
		}
	}
	return false
}

// Key returns a stable identifier for the option, used as the final
// tie-break so ranked output is reproducible across runs.
func (o TransitOption) Key() string {
	var b strings.Builder
	for i, l := range o.Legs {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(l.Mode))
		b.WriteByte(':')
		b.WriteString(l.Departure.Format(time.RFC3339))
		b.WriteByte('>')
		b.WriteString(l.Arrival.Format(time.RFC3339))
	}
	return b.String()
}

// Validate checks the leg-sequence invariants.
func (o TransitOption) Validate() error {
	if len(o.Legs) == 0 {
		return errors.New("transit option has no legs")
	}
	for i := 1; i < len(o.Legs); i++ {
		prev, cur := o.Legs[i-1], o.Legs[i]
		if cur.Departure.Before(prev.Arrival) {
			return fmt.Errorf("leg %d departs %s before leg %d arrives %s",
				i, cur.Departure.Format(time.RFC3339), i-1, prev.Arrival.Format(time.RFC3339))
		}
		if prev.Destination != cur.Origin {
			return fmt.Errorf("leg %d origin %q does not match leg %d destination %q",
				i, cur.Origin, i-1, prev.Destination)
		}
	}
	return nil
}

// DayItineraries holds the outbound and return transit options available on
// one calendar date for one start→trailhead pair.
type DayItineraries struct {
	// Date is the calendar date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Outbounds are journeys start city → trailhead on this date.
	Outbounds []TransitOption `json:"outbounds"`

	// Returns are journeys trailhead → start city departing on this date.
	Returns []TransitOption `json:"returns"`
}

// Result holds all analyzed itineraries for one (start, trailhead) pair.
// A TransitOption's origin city is the StartID of its enclosing Result.
type Result struct {
	StartID  string           `json:"start"`
	TargetID string           `json:"target"`
	Days     []DayItineraries `json:"days"`
}

// ReturnsFor returns the candidate return options for the given date:
// that date's returns followed by the next calendar date's, so overnight
// trips stay in play. Ordering within each day is preserved.
func (r Result) ReturnsFor(date string) []TransitOption {
	next := nextDate(date)
	var out []TransitOption
	for _, d := range r.Days {
		if d.Date == date {
			out = append(out, d.Returns...)
		}
	}
	for _, d := range r.Days {
		if d.Date == next {
			out = append(out, d.Returns...)
		}
	}
	return out
}

// nextDate returns the calendar date following a YYYY-MM-DD date.
func nextDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}

// Snapshot is the full immutable dataset: the catalog plus every analyzed
// (start, trailhead) result. It is built once per load and shared read-only.
type Snapshot struct {
	// Version identifies the bundle this snapshot was built from.
	Version string

	// LoadedAt is when the snapshot was constructed.
	LoadedAt time.Time

	Starts  map[string]Start
	Targets map[string]*Trailhead
	Summits map[int64]Summit
	Results []Result
}

// Start looks up a starting place by ID.
func (s *Snapshot) Start(id string) (Start, error) {
	st, ok := s.Starts[id]
	if !ok {
		return Start{}, ErrStartNotFound
	}
	return st, nil
}

// Target looks up a trailhead by ID.
func (s *Snapshot) Target(id string) (*Trailhead, error) {
	t, ok := s.Targets[id]
	if !ok {
		return nil, ErrTargetNotFound
	}
	return t, nil
}

// Summit looks up a summit by ID.
func (s *Snapshot) Summit(id int64) (Summit, error) {
	m, ok := s.Summits[id]
	if !ok {
		return Summit{}, ErrSummitNotFound
	}
	return m, nil
}

// SortedTargetIDs returns all trailhead IDs in lexical order, so iteration
// over the snapshot is deterministic.
func (s *Snapshot) SortedTargetIDs() []string {
	ids := make([]string, 0, len(s.Targets))
	for id := range s.Targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedStartIDs returns all start IDs in lexical order.
func (s *Snapshot) SortedStartIDs() []string {
	ids := make([]string, 0, len(s.Starts))
	for id := range s.Starts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResultsForStart returns the results whose journeys originate at the given
// start city, preserving bundle order.
func (s *Snapshot) ResultsForStart(startID string) []Result {
	var out []Result
	for _, r := range s.Results {
		if r.StartID == startID {
			out = append(out, r)
		}
	}
	return out
}

// ResultsForTarget returns the results for the given trailhead across all
// start cities, preserving bundle order.
func (s *Snapshot) ResultsForTarget(targetID string) []Result {
	var out []Result
	for _, r := range s.Results {
		if r.TargetID == targetID {
			out = append(out, r)
		}
	}
	return out
}
