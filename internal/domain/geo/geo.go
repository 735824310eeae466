package geo

import "math"

// EarthRadiusKM is the mean radius of Earth used for Haversine distance.
const EarthRadiusKM = 6371.0

// kmPerDegreeLat is the great-circle length of one degree of latitude.
// One degree of longitude shrinks by cos(latitude).
const kmPerDegreeLat = 111.32

// HaversineKM returns the great-circle distance in kilometers between two
// points specified by latitude and longitude in degrees.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// Circle is a circular search region.
type Circle struct {
	CenterLatitude  float64
	CenterLongitude float64
	RadiusKM        float64
}

// Rect is an axis-aligned rectangular search region in degrees.
type Rect struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// BoundingBox returns the axis-aligned rectangle enclosing the circle.
// The rectangle is a superset of the circle (its corners lie beyond the
// radius), so candidates matched through it still need exact distance
// filtering.
func BoundingBox(c Circle) Rect {
	latDelta := c.RadiusKM / kmPerDegreeLat
	lngDelta := c.RadiusKM / (kmPerDegreeLat * math.Cos(c.CenterLatitude*math.Pi/180))
	return Rect{
		MinLatitude:  c.CenterLatitude - latDelta,
		MaxLatitude:  c.CenterLatitude + latDelta,
		MinLongitude: c.CenterLongitude - lngDelta,
		MaxLongitude: c.CenterLongitude + lngDelta,
	}
}

// Contains reports whether the point lies within the circle.
func (c Circle) Contains(lat, lon float64) bool {
	return HaversineKM(c.CenterLatitude, c.CenterLongitude, lat, lon) <= c.RadiusKM
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
