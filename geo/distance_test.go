package geo

import (
	"testing"

	"cityrace/models"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	kungstradgarden := models.Coordinate{Latitude: 59.318329, Longitude: 18.042192}

	tests := []struct {
		name        string
		origin      models.Coordinate
		destination models.Coordinate
		meters      int
	}{
		{
			name:        "zero distance",
			origin:      kungstradgarden,
			destination: kungstradgarden,
			meters:      0,
		},
		{
			name:        "hundred meters",
			origin:      models.Coordinate{Latitude: 10.111, Longitude: 10.111},
			destination: models.Coordinate{Latitude: 10.111641, Longitude: 10.111641},
			meters:      100,
		},
		{
			name:        "across town",
			origin:      kungstradgarden,
			destination: models.Coordinate{Latitude: 59.316556, Longitude: 18.033478},
			meters:      532,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.meters, Distance(tt.origin, tt.destination))
			assert.Equal(t, tt.meters, Distance(tt.destination, tt.origin))
		})
	}
}

func TestIsWithin(t *testing.T) {
	origin := models.Coordinate{Latitude: 59.318329, Longitude: 18.042192}
	nearby := models.Coordinate{Latitude: 59.316556, Longitude: 18.033478}     // ~530m
	inRange := models.Coordinate{Latitude: 59.318134, Longitude: 18.063666}    // ~1200m
	outOfRange := models.Coordinate{Latitude: 59.326934, Longitude: 18.103433} // ~3600m

	// Too close for the lower bound.
	assert.False(t, IsWithin(origin, nearby, 3000, 1000))
	assert.True(t, IsWithin(origin, nearby, 3000, 0))

	// Inside the band.
	assert.True(t, IsWithin(origin, inRange, 3000, 1000))
	assert.False(t, IsWithin(origin, inRange, 3000, 1500))

	// Beyond the upper bound.
	assert.False(t, IsWithin(origin, outOfRange, 3000, 1000))
	assert.True(t, IsWithin(origin, outOfRange, 3700, 1000))
}

func TestIsWithinBoundsInclusive(t *testing.T) {
	origin := models.Coordinate{Latitude: 59.3, Longitude: 18.0}
	dist := Distance(origin, models.Coordinate{Latitude: 59.31, Longitude: 18.0})

	assert.True(t, IsWithin(origin, models.Coordinate{Latitude: 59.31, Longitude: 18.0}, dist, dist))
	assert.False(t, IsWithin(origin, models.Coordinate{Latitude: 59.31, Longitude: 18.0}, dist-1, 0))
	assert.False(t, IsWithin(origin, models.Coordinate{Latitude: 59.31, Longitude: 18.0}, dist+1, dist+1))
}
