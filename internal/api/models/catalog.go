package models

import "github.com/summitline/summitline/internal/dataset"

// Summit represents a summit in catalog responses.
type Summit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Route represents a hike route in catalog responses.
type Route struct {
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	SummitIDs        []int64 `json:"summitIds"`
	DistanceKm       float64 `json:"distanceKm"`
	AscentM          float64 `json:"ascentM"`
	MinDurationHours float64 `json:"minDurationHours"`
}

// Trailhead represents a trailhead with its routes.
type Trailhead struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Location    Point   `json:"location"`
	Routes      []Route `json:"routes"`
}

// Start represents an origin city.
type Start struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location Point  `json:"location"`
}

// SummitList is the response for summit listings.
type SummitList struct {
	Summits []Summit `json:"summits"`
}

// TrailheadList is the response for trailhead listings.
type TrailheadList struct {
	Targets []Trailhead `json:"targets"`
}

// StartList is the response for origin city listings.
type StartList struct {
	Starts []Start `json:"starts"`
}

// SummitFromDataset converts a dataset summit to its API shape.
func SummitFromDataset(s dataset.Summit) Summit {
	return Summit{ID: s.ID, Name: s.Name, Slug: s.Slug}
}

// RouteFromDataset converts a dataset route to its API shape.
func RouteFromDataset(r dataset.Route) Route {
	return Route{
		Name:             r.Name,
		Slug:             r.Slug,
		SummitIDs:        r.SummitIDs,
		DistanceKm:       r.DistanceKm,
		AscentM:          r.AscentM,
		MinDurationHours: r.MinDurationHours,
	}
}

// TrailheadFromDataset converts a dataset trailhead to its API shape.
func TrailheadFromDataset(t *dataset.Trailhead) Trailhead {
	routes := make([]Route, len(t.Routes))
	for i, r := range t.Routes {
		routes[i] = RouteFromDataset(r)
	}
	return Trailhead{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Location:    Point{Lng: t.LngLat.Lng, Lat: t.LngLat.Lat},
		Routes:      routes,
	}
}

// StartFromDataset converts a dataset start to its API shape.
func StartFromDataset(s dataset.Start) Start {
	return Start{
		ID:       s.ID,
		Name:     s.Name,
		Location: Point{Lng: s.LngLat.Lng, Lat: s.LngLat.Lat},
	}
}
