package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	require.Zero(t, DistanceKm(-1.2921, 36.8219, -1.2921, 36.8219))
}

func TestDistanceKmKnownPairs(t *testing.T) {
	// Nairobi CBD to Mombasa is roughly 440 km great-circle.
	nairobiMombasa := DistanceKm(-1.2921, 36.8219, -4.0435, 39.6682)
	require.InDelta(t, 440, nairobiMombasa, 10)

	// One degree of latitude on the equator is ~111.2 km.
	oneDegree := DistanceKm(0, 0, 1, 0)
	require.InDelta(t, 111.2, oneDegree, 0.5)
}

func TestDistanceKmSymmetric(t *testing.T) {
	a := DistanceKm(-1.2921, 36.8219, -0.0917, 34.7680)
	b := DistanceKm(-0.0917, 34.7680, -1.2921, 36.8219)
	require.InDelta(t, a, b, 1e-9)
}

func TestBoundingBoxEnclosesRadius(t *testing.T) {
	lat, lng, radius := -1.2921, 36.8219, 25.0
	minLat, maxLat, minLng, maxLng := BoundingBox(lat, lng, radius)

	require.Less(t, minLat, lat)
	require.Greater(t, maxLat, lat)
	require.Less(t, minLng, lng)
	require.Greater(t, maxLng, lng)

	// Edge of the box is at least radius away on each axis.
	require.GreaterOrEqual(t, DistanceKm(lat, lng, maxLat, lng), radius-0.1)
	require.GreaterOrEqual(t, DistanceKm(lat, lng, lat, maxLng), radius-0.1)
}

func TestBoundingBoxNearPoles(t *testing.T) {
	_, _, minLng, maxLng := BoundingBox(89.9999, 0, 10)
	require.Equal(t, -180.0, minLng)
	require.Equal(t, 180.0, maxLng)
}
