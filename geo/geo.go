// Package geo provides the great-circle math used by the departure
// aggregator and the vehicle matcher.
package geo

import "math"

// EarthRadiusMeters is the spherical Earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// HeadingConeDegrees is the half-angle of the cone within which a vehicle
// counts as heading toward a target. Boundary inclusive.
const HeadingConeDegrees = 90.0

// Coordinate is a WGS 84 position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Distance returns the Haversine distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Bearing returns the initial great-circle bearing from `from` to `to`,
// in degrees [0, 360), 0 = north, increasing clockwise. Uses atan2 for
// full-circle correctness.
func Bearing(from, to Coordinate) float64 {
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLon := (to.Lon - from.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// IsHeadingToward reports whether a vehicle at `vehicle` with the given
// bearing is moving toward `target`. A nil bearing means the direction is
// unknown, which counts as possibly heading toward.
func IsHeadingToward(vehicle Coordinate, bearing *float64, target Coordinate) bool {
	if bearing == nil {
		return true
	}
	diff := math.Abs(Bearing(vehicle, target) - *bearing)
	diff = math.Mod(diff, 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff <= HeadingConeDegrees
}
