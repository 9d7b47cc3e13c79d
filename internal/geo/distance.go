package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Longitude float64
	Latitude  float64
}

// Valid reports whether the coordinate is a finite point on the sphere.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude).IsValid()
}

// Distance returns the haversine great-circle distance between a and b in kilometers.
func Distance(a, b Coordinate) float64 {
	lon1, lat1 := toRad(a.Longitude), toRad(a.Latitude)
	lon2, lat2 := toRad(b.Longitude), toRad(b.Latitude)

	dLon := lon2 - lon1
	dLat := lat2 - lat1

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(h))
	return c * EarthRadiusKm
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
