package ranking

import (
	"testing"

	"github.com/summitline/summitline/internal/dataset"
	"github.com/summitline/summitline/internal/prefs"
)

func TestScore_LaterDepartureBeatsEarlier(t *testing.T) {
	route := testRoute("ben-lui-main", 5)
	p := prefs.Defaults()
	ret := railJourney(t, "2025-06-14 19:30", "2025-06-14 21:30")

	early := railJourney(t, "2025-06-14 07:00", "2025-06-14 09:00")
	late := railJourney(t, "2025-06-14 09:00", "2025-06-14 11:00")

	earlyScore, ok := Score(early, ret, route, p)
	if !ok {
		t.Fatal("early combination unexpectedly excluded")
	}
	lateScore, ok := Score(late, ret, route, p)
	if !ok {
		t.Fatal("late combination unexpectedly excluded")
	}

	// Both hike windows comfortably fit a 5h route; the 09:00 departure
	// wins on departure fit and on the shorter door-to-door span.
	if lateScore <= earlyScore {
		t.Errorf("expected 09:00 departure to outscore 07:00: %v <= %v", lateScore, earlyScore)
	}
}

func TestScore_CyclingExcludedWhenDisallowed(t *testing.T) {
	route := testRoute("ben-lui-main", 5)
	p := prefs.Defaults()
	p.Ranking.AllowCycling = false

	rail := railJourney(t, "2025-06-14 08:00", "2025-06-14 10:00")
	bike := journey(t, dataset.ModeBicycle, "2025-06-14 17:00", "2025-06-14 19:00")
	railBack := railJourney(t, "2025-06-14 17:00", "2025-06-14 19:00")

	if _, ok := Score(rail, bike, route, p); ok {
		t.Error("expected cycling return to be excluded when cycling is disallowed")
	}
	if _, ok := Score(bike, railBack, route, p); ok {
		t.Error("expected cycling outbound to be excluded when cycling is disallowed")
	}
	if _, ok := Score(rail, railBack, route, p); !ok {
		t.Error("expected rail-only combination to be scorable")
	}
}

func TestScore_CyclingAllowed(t *testing.T) {
	route := testRoute("ben-lui-main", 5)
	p := prefs.Defaults()
	p.Ranking.AllowCycling = true

	bike := journey(t, dataset.ModeBicycle, "2025-06-14 08:00", "2025-06-14 10:00")
	ret := railJourney(t, "2025-06-14 17:00", "2025-06-14 19:00")

	if _, ok := Score(bike, ret, route, p); !ok {
		t.Error("expected cycling outbound to be scorable when cycling is allowed")
	}
}

func TestScore_ExcludesUnusableRoute(t *testing.T) {
	p := prefs.Defaults()
	out := railJourney(t, "2025-06-14 08:00", "2025-06-14 10:00")
	ret := railJourney(t, "2025-06-14 17:00", "2025-06-14 19:00")

	if _, ok := Score(out, ret, testRoute("broken", 0), p); ok {
		t.Error("expected zero minimum duration to exclude the combination")
	}
	if _, ok := Score(out, ret, testRoute("broken", -2), p); ok {
		t.Error("expected negative minimum duration to exclude the combination")
	}
}

func TestScore_ExcludesDegenerateWindow(t *testing.T) {
	p := prefs.Defaults()
	route := testRoute("ben-lui-main", 5)
	out := railJourney(t, "2025-06-14 08:00", "2025-06-14 10:00")
	ret := railJourney(t, "2025-06-14 09:00", "2025-06-14 09:30")

	if _, ok := Score(out, ret, route, p); ok {
		t.Error("expected return departing before outbound arrival to be excluded")
	}
}

func TestScore_DeterministicForSameInputs(t *testing.T) {
	route := testRoute("ben-lui-main", 5)
	p := prefs.Defaults()
	out := railJourney(t, "2025-06-14 08:00", "2025-06-14 10:00")
	ret := railJourney(t, "2025-06-14 17:00", "2025-06-14 19:00")

	first, ok := Score(out, ret, route, p)
	if !ok {
		t.Fatal("combination unexpectedly excluded")
	}
	for i := 0; i < 5; i++ {
		again, ok := Score(out, ret, route, p)
		if !ok || again != first {
			t.Fatalf("score not deterministic: run %d got (%v, %v), want (%v, true)", i, again, ok, first)
		}
	}
}

func TestDepartureFit(t *testing.T) {
	tests := []struct {
		name      string
		departure string
		earliest  float64
		want      float64
	}{
		{"at threshold", "2025-06-14 06:00", 6, 1},
		{"after threshold", "2025-06-14 09:00", 6, 1},
		{"midnight", "2025-06-14 00:00", 6, 0},
		{"halfway before", "2025-06-14 03:00", 6, 0.5},
		{"no threshold", "2025-06-14 04:00", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := departureFit(at(t, tt.departure), tt.earliest)
			if got != tt.want {
				t.Errorf("departureFit(%s, %v) = %v, want %v", tt.departure, tt.earliest, got, tt.want)
			}
		})
	}
}

func TestHikeFit(t *testing.T) {
	tests := []struct {
		name   string
		window float64
		min    float64
		want   float64
	}{
		{"at viability floor", 2.5, 5, 0},
		{"exactly minimum", 5, 5, 0.5},
		{"ideal ratio", 7.5, 5, 1},
		{"wasteful", 20, 5, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hikeFit(tt.window, tt.min)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("hikeFit(%v, %v) = %v, want %v", tt.window, tt.min, got, tt.want)
			}
		})
	}
}

func TestBufferFit(t *testing.T) {
	tests := []struct {
		name   string
		buffer float64
		want   float64
	}{
		{"no buffer", 0, 0},
		{"half hour", 0.5, 0.5},
		{"ideal hour", 1, 1},
		{"four hours", 4, 0.5},
		{"excessive", 12, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bufferFit(tt.buffer)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("bufferFit(%v) = %v, want %v", tt.buffer, got, tt.want)
			}
		})
	}
}

func TestJourneyFit(t *testing.T) {
	if got := journeyFit(5, 10); got != 0.5 {
		t.Errorf("journeyFit(5, 10) = %v, want 0.5", got)
	}
	if got := journeyFit(5, 4); got != 1 {
		t.Errorf("journeyFit clamp: got %v, want 1", got)
	}
}
