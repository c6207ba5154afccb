package domain

import (
	"math"
	"time"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DefaultWalkingSpeedKmh is the pace assumed when estimating walking
// time between itinerary items.
const DefaultWalkingSpeedKmh = 4.0

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	// Lat is the latitude, positive north.
	Lat float64

	// Lon is the longitude, positive east.
	Lon float64
}

// HaversineKm returns the great-circle distance between two points in
// kilometres. No projection, no road-network routing.
func HaversineKm(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// PathDistanceKm sums the pairwise haversine distance over consecutive
// points. Fewer than two points is zero distance.
func PathDistanceKm(points []Coordinates) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineKm(points[i-1], points[i])
	}
	return total
}

// WalkingDuration estimates the time to walk the given distance at the
// default pace.
func WalkingDuration(km float64) time.Duration {
	if km <= 0 {
		return 0
	}
	hours := km / DefaultWalkingSpeedKmh
	return time.Duration(hours * float64(time.Hour))
}

// ClusterByProximity groups points so that every point in a cluster is
// within radiusKm of the cluster's first (seed) point. Greedy and
// order-preserving: a point joins the earliest cluster that accepts
// it, so identical input yields identical clusters. Returned slices
// hold indices into the input.
func ClusterByProximity(points []Coordinates, radiusKm float64) [][]int {
	var clusters [][]int
	var seeds []Coordinates

	for i, p := range points {
		placed := false
		for c, seed := range seeds {
			if HaversineKm(seed, p) <= radiusKm {
				clusters[c] = append(clusters[c], i)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []int{i})
			seeds = append(seeds, p)
		}
	}
	return clusters
}
