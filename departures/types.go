// Package departures aggregates nearby stops' upcoming departures into
// the list a departure board displays: filtered to a time window,
// deduplicated so the closest stop wins per line and direction, and
// sorted chronologically.
package departures

import (
	"time"

	"github.com/lahella-app/transit-api/geo"
)

// StopDeparture is one upcoming transit event at one stop. Departures are
// built fresh on every poll cycle and replaced wholesale; they are never
// mutated in place.
type StopDeparture struct {
	RouteLabel         string         `json:"routeLabel"`
	ColorHex           string         `json:"colorHex,omitempty"`
	Headsign           string         `json:"headsign"`
	Mode               string         `json:"mode,omitempty"`
	MinutesUntil       int            `json:"minutesUntil"`
	ScheduledAt        time.Time      `json:"scheduledAt"`
	RealtimeAt         time.Time      `json:"realtimeAt"`
	Realtime           bool           `json:"realtime"`
	StopDistanceMeters float64        `json:"stopDistanceMeters"`
	StopCoordinate     geo.Coordinate `json:"stopCoordinate"`
	StopID             string         `json:"stopId"`
	StopCode           string         `json:"stopCode,omitempty"`
	TripID             string         `json:"tripId,omitempty"`
}

// NearbyStop is one stop within the search radius together with its raw
// upcoming stop-times.
type NearbyStop struct {
	StopID         string
	StopCode       string
	Name           string
	Coordinate     geo.Coordinate
	DistanceMeters float64
	StopTimes      []StopTime
}

// StopTime is a raw stop-time record: departure offsets in seconds
// relative to the service-day epoch, as the upstream feed reports them.
type StopTime struct {
	ServiceDay         int64
	ScheduledDeparture int64
	RealtimeDeparture  int64
	Realtime           bool
	DelaySeconds       int
	Headsign           string
	TripID             string
	RouteLabel         string
	ColorHex           string
	Mode               string
}
