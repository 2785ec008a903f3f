package geo

import (
	"math"
	"testing"
	"time"

	"github.com/pdihub/pdihub/internal/models"
)

// TestHaversineKnownDistance checks against the Sydney Opera House to Sydney
// Harbour Bridge distance, roughly one kilometre.
func TestHaversineKnownDistance(t *testing.T) {
	got := Haversine(-33.8568, 151.2153, -33.8523, 151.2108)

	if got < 0.5 || got > 1.0 {
		t.Errorf("got %.3f km, expected roughly 0.65 km", got)
	}
}

func TestHaversineZeroDistance(t *testing.T) {
	if got := Haversine(-33.86, 151.21, -33.86, 151.21); got != 0 {
		t.Errorf("identical points: got %v, want 0", got)
	}
}

func TestTrackDistanceKM(t *testing.T) {
	// Three points roughly 111m apart along a meridian (0.001 deg latitude).
	points := []models.TrackPoint{
		{Lat: 0.000, Lng: 0},
		{Lat: 0.001, Lng: 0},
		{Lat: 0.002, Lng: 0},
	}

	got := TrackDistanceKM(points)
	want := 0.2224 // 2 * 111.2m

	if math.Abs(got-want) > 0.01 {
		t.Errorf("got %.4f km, want about %.4f km", got, want)
	}

	if TrackDistanceKM(nil) != 0 {
		t.Error("empty track must have zero distance")
	}
	if TrackDistanceKM(points[:1]) != 0 {
		t.Error("single-point track must have zero distance")
	}
}

func TestTrackDurationSeconds(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	points := []models.TrackPoint{
		{RecordedAt: start},
		{RecordedAt: start.Add(30 * time.Second)},
		{RecordedAt: start.Add(90 * time.Second)},
	}

	if got := TrackDurationSeconds(points); got != 90 {
		t.Errorf("got %v seconds, want 90", got)
	}
	if got := TrackDurationSeconds(points[:1]); got != 0 {
		t.Errorf("single sample: got %v, want 0", got)
	}
}

func TestFinishRoadTest(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rt := &models.RoadTest{
		Points: []models.TrackPoint{
			{Lat: 0.000, Lng: 0, RecordedAt: start},
			{Lat: 0.001, Lng: 0, RecordedAt: start.Add(time.Minute)},
		},
	}

	FinishRoadTest(rt)

	if rt.DistanceKM == 0 {
		t.Error("distance not derived")
	}
	if rt.DurationSeconds != 60 {
		t.Errorf("got duration %v, want 60", rt.DurationSeconds)
	}

	FinishRoadTest(nil) // must not panic
}
