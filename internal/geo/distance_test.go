package geo

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        Coordinate
		b        Coordinate
		expected float64 // km
		epsilon  float64
	}{
		{
			name:     "Toronto to Kitchener",
			a:        Coordinate{Longitude: -79.3831843, Latitude: 43.653226},
			b:        Coordinate{Longitude: -80.4771472, Latitude: 43.4129238},
			expected: 92.1467741859417,
			epsilon:  1e-9,
		},
		{
			name:     "Same point",
			a:        Coordinate{Longitude: 13.4050, Latitude: 52.5200},
			b:        Coordinate{Longitude: 13.4050, Latitude: 52.5200},
			expected: 0.0,
			epsilon:  1e-12,
		},
		{
			name:     "North Pole to South Pole",
			a:        Coordinate{Longitude: 0, Latitude: 90},
			b:        Coordinate{Longitude: 0, Latitude: -90},
			expected: math.Pi * EarthRadiusKm,
			epsilon:  1e-6,
		},
		{
			name:     "Equator 1 degree diff",
			a:        Coordinate{Longitude: 0, Latitude: 0},
			b:        Coordinate{Longitude: 1, Latitude: 0},
			expected: 111.19, // ~111 km
			epsilon:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, tt.epsilon)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	points := []Coordinate{
		{Longitude: -79.4931, Latitude: 43.70011},
		{Longitude: -72.80649, Latitude: 43.22646},
		{Longitude: -119.44318, Latitude: 36.47606},
		{Longitude: -7.30917, Latitude: 54.99721},
		{Longitude: 179.9, Latitude: -45},
	}

	for _, a := range points {
		assert.Zero(t, Distance(a, a))
		for _, b := range points {
			assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
		}
	}
}

func TestDistance_MatchesS2(t *testing.T) {
	a := Coordinate{Longitude: -79.4931, Latitude: 43.70011}
	b := Coordinate{Longitude: -7.30917, Latitude: 54.99721}

	angle := s2.LatLngFromDegrees(a.Latitude, a.Longitude).Distance(s2.LatLngFromDegrees(b.Latitude, b.Longitude))
	assert.InDelta(t, angle.Radians()*EarthRadiusKm, Distance(a, b), 1e-6)
}

func TestCoordinate_Valid(t *testing.T) {
	assert.True(t, Coordinate{Longitude: -79.4931, Latitude: 43.70011}.Valid())
	assert.True(t, Coordinate{Longitude: 180, Latitude: -90}.Valid())
	assert.False(t, Coordinate{Longitude: 0, Latitude: 91}.Valid())
	assert.False(t, Coordinate{Longitude: -181, Latitude: 0}.Valid())
	assert.False(t, Coordinate{Longitude: math.NaN(), Latitude: 0}.Valid())
	assert.False(t, Coordinate{Longitude: 0, Latitude: math.Inf(1)}.Valid())
}
