package geo

import "math"

// EarthRadiusKm is the mean earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0088

// DistanceKm returns the haversine great-circle distance in kilometres
// between two WGS84 coordinates.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// BoundingBox returns the min/max latitude and longitude of a box that
// encloses the circle of radiusKm around the centre point. Used as a cheap
// SQL prefilter before the exact haversine check.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	latDelta := degrees(radiusKm / EarthRadiusKm)
	minLat = lat - latDelta
	maxLat = lat + latDelta

	// Longitude degrees shrink with latitude; guard the poles where the
	// divisor collapses to zero.
	cosLat := math.Cos(radians(lat))
	if cosLat < 1e-10 {
		return minLat, maxLat, -180, 180
	}

	lngDelta := degrees(radiusKm / (EarthRadiusKm * cosLat))
	return minLat, maxLat, lng - lngDelta, lng + lngDelta
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
