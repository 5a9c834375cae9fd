package models

import (
	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/ranking"
)

// TransitLeg represents one transport segment in ranking responses.
type TransitLeg struct {
	Mode        string    `json:"mode"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   Timestamp `json:"departure"`
	Arrival     Timestamp `json:"arrival"`
	AgencyName  string    `json:"agencyName,omitempty"`
	RouteName   string    `json:"routeName,omitempty"`
}

// TransitOption represents one complete journey in ranking responses.
type TransitOption struct {
	Legs      []TransitLeg `json:"legs"`
	Departure Timestamp    `json:"departure"`
	Arrival   Timestamp    `json:"arrival"`
}

// RankedOption is one scored and labeled itinerary combination. The raw
// score and percentile are part of the rendering contract; end-user
// surfaces are expected to show only the bucket and label.
type RankedOption struct {
	StartID    string        `json:"startId"`
	TargetID   string        `json:"targetId"`
	Route      Route         `json:"route"`
	Date       string        `json:"date"`
	Outbound   TransitOption `json:"outbound"`
	Return     TransitOption `json:"return"`
	Score      float64       `json:"score"`
	Percentile float64       `json:"percentile"`
	Bucket     string        `json:"bucket"`
	Label      string        `json:"label,omitempty"`
}

// TargetRankings is the response for a per-trailhead compute.
type TargetRankings struct {
	TargetID       string         `json:"targetId"`
	DatasetVersion string         `json:"datasetVersion"`
	Options        []RankedOption `json:"options"`
}

// StartRankings is the response for a per-origin-city compute.
type StartRankings struct {
	StartID        string         `json:"startId"`
	DatasetVersion string         `json:"datasetVersion"`
	Limit          int            `json:"limit,omitempty"`
	Options        []RankedOption `json:"options"`
}

// TransitOptionFromDataset converts a dataset transit option to its API
// shape.
func TransitOptionFromDataset(o dataset.TransitOption) TransitOption {
	legs := make([]TransitLeg, len(o.Legs))
	for i, l := range o.Legs {
		legs[i] = TransitLeg{
			Mode:        string(l.Mode),
			Origin:      l.Origin,
			Destination: l.Destination,
			Departure:   Timestamp(l.Departure),
			Arrival:     Timestamp(l.Arrival),
			AgencyName:  l.AgencyName,
			RouteName:   l.RouteName,
		}
	}
	return TransitOption{
		Legs:      legs,
		Departure: Timestamp(o.Departure()),
		Arrival:   Timestamp(o.Arrival()),
	}
}

// RankedOptionFromRanking converts a ranked option to its API shape. The
// label is dropped when showLabels is false.
func RankedOptionFromRanking(o ranking.RankedOption, showLabels bool) RankedOption {
	out := RankedOption{
		StartID:    o.StartID,
		TargetID:   o.TargetID,
		Route:      RouteFromDataset(o.Route),
		Date:       o.Date,
		Outbound:   TransitOptionFromDataset(o.Outbound),
		Return:     TransitOptionFromDataset(o.Return),
		Score:      o.Score,
		Percentile: o.Percentile,
		Bucket:     string(o.Bucket),
	}
	if showLabels {
		out.Label = o.Label
	}
	return out
}

// RankedOptionsFromRanking converts a ranked option list to its API shape.
func RankedOptionsFromRanking(options []ranking.RankedOption, showLabels bool) []RankedOption {
	out := make([]RankedOption, len(options))
	for i, o := range options {
		out[i] = RankedOptionFromRanking(o, showLabels)
	}
	return out
}
