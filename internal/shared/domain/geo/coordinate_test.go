package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpmatch/helpmatch/internal/shared/domain/geo"
)

func TestNewCoordinate(t *testing.T) {
	coord, err := geo.NewCoordinate(52.52, 13.405)

	require.NoError(t, err)
	assert.Equal(t, 52.52, coord.Lat())
	assert.Equal(t, 13.405, coord.Lon())
}

func TestNewCoordinate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
	}{
		{"latitude too high", 90.1, 0},
		{"latitude too low", -90.1, 0},
		{"longitude too high", 0, 180.1},
		{"longitude too low", 0, -180.1},
		{"NaN latitude", math.NaN(), 0},
		{"NaN longitude", 0, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.NewCoordinate(tt.lat, tt.lon)
			require.Error(t, err)
		})
	}
}

func TestCoordinate_DistanceKm(t *testing.T) {
	berlin, err := geo.NewCoordinate(52.5200, 13.4050)
	require.NoError(t, err)
	hamburg, err := geo.NewCoordinate(53.5511, 9.9937)
	require.NoError(t, err)

	distance := berlin.DistanceKm(hamburg)

	// Great-circle distance Berlin-Hamburg is roughly 255 km.
	assert.InDelta(t, 255, distance, 5)
}

func TestCoordinate_DistanceKm_Symmetric(t *testing.T) {
	a, err := geo.NewCoordinate(48.1351, 11.5820)
	require.NoError(t, err)
	b, err := geo.NewCoordinate(50.1109, 8.6821)
	require.NoError(t, err)

	assert.InDelta(t, a.DistanceKm(b), b.DistanceKm(a), 1e-9)
}

func TestCoordinate_DistanceKm_SamePoint(t *testing.T) {
	coord, err := geo.NewCoordinate(40.7128, -74.0060)
	require.NoError(t, err)

	assert.InDelta(t, 0, coord.DistanceKm(coord), 1e-9)
}
