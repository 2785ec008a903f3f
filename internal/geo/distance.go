// Package geo provides great-circle distance helpers for road-test tracks.
package geo

import (
	"math"

	"github.com/pdihub/pdihub/internal/models"
)

// earthRadiusKM is the mean Earth radius.
const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance in kilometres between two
// coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// TrackDistanceKM sums pairwise great-circle distances over an ordered track.
func TrackDistanceKM(points []models.TrackPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1].Lat, points[i-1].Lng, points[i].Lat, points[i].Lng)
	}

	return total
}

// TrackDurationSeconds returns the elapsed wall-clock time between the first
// and last sample of an ordered track.
func TrackDurationSeconds(points []models.TrackPoint) float64 {
	if len(points) < 2 {
		return 0
	}

	return points[len(points)-1].RecordedAt.Sub(points[0].RecordedAt).Seconds()
}

// FinishRoadTest folds distance and duration into a road test from its
// captured track. Called when the road test is stopped; the result is then
// saved as a normal location section save.
func FinishRoadTest(rt *models.RoadTest) {
	if rt == nil {
		return
	}

	rt.DistanceKM = TrackDistanceKM(rt.Points)
	rt.DurationSeconds = TrackDurationSeconds(rt.Points)
}
