package ranking

import (
	"testing"
	"time"

	"github.com/summitline/summitline/internal/dataset"
)

// at parses "2025-06-14 07:30" style timestamps for fixtures.
func at(t testing.TB, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad fixture timestamp %q: %v", value, err)
	}
	return ts
}

// journey builds a one-leg transit option with absolute leg times.
func journey(t testing.TB, mode dataset.Mode, depart, arrive string) dataset.TransitOption {
	t.Helper()
	return dataset.TransitOption{
		Legs: []dataset.TransitLeg{
			{
				Mode:        mode,
				Origin:      "origin",
				Destination: "destination",
				Departure:   at(t, depart),
				Arrival:     at(t, arrive),
			},
		},
	}
}

// railJourney builds a single rail leg option.
func railJourney(t testing.TB, depart, arrive string) dataset.TransitOption {
	t.Helper()
	return journey(t, dataset.ModeRail, depart, arrive)
}

// testRoute returns a hike route with the given minimum duration in hours.
func testRoute(slug string, minHours float64) dataset.Route {
	return dataset.Route{
		Name:             "Route " + slug,
		Slug:             slug,
		SummitIDs:        []int64{1},
		DistanceKm:       12,
		AscentM:          950,
		MinDurationHours: minHours,
	}
}

// testSnapshot builds a small two-start, two-trailhead snapshot:
//
//	glasgow → ben-lui   (one route, two outbounds, two returns)
//	glasgow → ben-more  (one route, one outbound, one return)
//	stirling → ben-more (one route, one outbound, one return)
func testSnapshot(t testing.TB) *dataset.Snapshot {
	t.Helper()

	benLui := &dataset.Trailhead{
		ID:     "ben-lui",
		Name:   "Ben Lui (Tyndrum Lower)",
		Routes: []dataset.Route{testRoute("ben-lui-main", 5)},
	}
	benMore := &dataset.Trailhead{
		ID:     "ben-more",
		Name:   "Ben More (Crianlarich)",
		Routes: []dataset.Route{testRoute("ben-more-main", 4)},
	}

	results := []dataset.Result{
		{
			StartID:  "glasgow",
			TargetID: "ben-lui",
			Days: []dataset.DayItineraries{
				{
					Date: "2025-06-14",
					Outbounds: []dataset.TransitOption{
						railJourney(t, "2025-06-14 07:00", "2025-06-14 09:00"),
						railJourney(t, "2025-06-14 09:00", "2025-06-14 11:00"),
					},
					Returns: []dataset.TransitOption{
						railJourney(t, "2025-06-14 17:00", "2025-06-14 19:00"),
						railJourney(t, "2025-06-14 19:30", "2025-06-14 21:30"),
					},
				},
			},
		},
		{
			StartID:  "glasgow",
			TargetID: "ben-more",
			Days: []dataset.DayItineraries{
				{
					Date: "2025-06-14",
					Outbounds: []dataset.TransitOption{
						railJourney(t, "2025-06-14 08:00", "2025-06-14 10:00"),
					},
					Returns: []dataset.TransitOption{
						railJourney(t, "2025-06-14 16:30", "2025-06-14 18:30"),
					},
				},
			},
		},
		{
			StartID:  "stirling",
			TargetID: "ben-more",
			Days: []dataset.DayItineraries{
				{
					Date: "2025-06-14",
					Outbounds: []dataset.TransitOption{
						railJourney(t, "2025-06-14 08:30", "2025-06-14 10:00"),
					},
					Returns: []dataset.TransitOption{
						railJourney(t, "2025-06-14 16:30", "2025-06-14 18:00"),
					},
				},
			},
		},
	}

	return &dataset.Snapshot{
		Version:  "test-v1",
		LoadedAt: at(t, "2025-06-01 00:00"),
		Starts: map[string]dataset.Start{
			"glasgow":  {ID: "glasgow", Name: "Glasgow"},
			"stirling": {ID: "stirling", Name: "Stirling"},
		},
		Targets: map[string]*dataset.Trailhead{
			"ben-lui":  benLui,
			"ben-more": benMore,
		},
		Summits: map[int64]dataset.Summit{
			1: {ID: 1, Name: "Ben Lui", Slug: "ben-lui"},
		},
		Results: results,
	}
}
