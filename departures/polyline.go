package departures

import "github.com/lahella-app/transit-api/geo"

// decodePolyline decodes a Google encoded polyline (precision 1e-5) into
// coordinates. Invalid trailing input yields the points decoded so far.
func decodePolyline(encoded string) []geo.Coordinate {
	var coords []geo.Coordinate
	var lat, lon int64
	i := 0
	for i < len(encoded) {
		dLat, n, ok := decodeVarint(encoded[i:])
		if !ok {
			break
		}
		i += n
		dLon, n, ok := decodeVarint(encoded[i:])
		if !ok {
			break
		}
		i += n
		lat += dLat
		lon += dLon
		coords = append(coords, geo.Coordinate{
			Lat: float64(lat) / 1e5,
			Lon: float64(lon) / 1e5,
		})
	}
	return coords
}

func decodeVarint(s string) (value int64, size int, ok bool) {
	var result int64
	var shift uint
	for i := 0; i < len(s); i++ {
		b := int64(s[i]) - 63
		if b < 0 {
			return 0, 0, false
		}
		result |= (b & 0x1f) << shift
		if b < 0x20 {
			if result&1 != 0 {
				return ^(result >> 1), i + 1, true
			}
			return result >> 1, i + 1, true
		}
		shift += 5
	}
	return 0, 0, false
}
