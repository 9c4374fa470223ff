package transitapi

import (
	"strconv"
	"strings"

	"github.com/lahella-app/transit-api/geo"
)

type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

// parseCoordinate validates a lat/lon parameter pair. Both must be
// present, parseable and within range.
func parseCoordinate(latStr, lonStr string) (geo.Coordinate, error) {
	if strings.TrimSpace(latStr) == "" || strings.TrimSpace(lonStr) == "" {
		return geo.Coordinate{}, &QueryError{Msg: "lat and lon are required."}
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Coordinate{}, &QueryError{Msg: "lat must be a number."}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geo.Coordinate{}, &QueryError{Msg: "lon must be a number."}
	}
	c := geo.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return geo.Coordinate{}, &QueryError{Msg: "coordinates are out of range."}
	}
	return c, nil
}

// parsePositiveInt parses an optional positive integer parameter,
// returning fallback when the parameter is empty.
func parsePositiveInt(s string, fallback int) (int, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, &QueryError{Msg: "numeric parameter must be a positive integer."}
	}
	return v, nil
}

// parseOptionalInt parses an optional integer parameter into a pointer,
// nil when absent.
func parseOptionalInt(s string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, &QueryError{Msg: "numeric parameter must be an integer."}
	}
	return &v, nil
}
