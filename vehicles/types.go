// Package vehicles normalizes per-operator real-time vehicle position
// feeds into a common record and matches displayed departures to a live
// vehicle. Each poll produces a fresh snapshot that replaces the previous
// one wholesale; nothing here is persisted or mutated in place.
package vehicles

import (
	"time"

	"github.com/lahella-app/transit-api/geo"
)

// VehiclePosition is one real-time vehicle observation, normalized from
// whichever operator feed produced it.
type VehiclePosition struct {
	Coordinate      geo.Coordinate `json:"coordinate"`
	BearingDegrees  *float64       `json:"bearingDegrees,omitempty"`
	Speed           *float64       `json:"speed,omitempty"`
	ObservedAt      time.Time      `json:"observedAt"`
	VehicleID       string         `json:"vehicleId,omitempty"`
	DelaySeconds    *int           `json:"delaySeconds,omitempty"`
	OnwardCalls     []OnwardCall   `json:"onwardCalls,omitempty"`
	DestinationName string         `json:"destinationName,omitempty"`
	DirectionID     string         `json:"directionId,omitempty"`
}

// OnwardCall is a future stop the vehicle's current trip will visit.
// SequenceOrder is non-decreasing along the remaining path; the matcher
// only uses calls for lookup by stop code.
type OnwardCall struct {
	StopCode          string     `json:"stopCode"`
	ExpectedArrival   *time.Time `json:"expectedArrival,omitempty"`
	ExpectedDeparture *time.Time `json:"expectedDeparture,omitempty"`
	SequenceOrder     int        `json:"sequenceOrder"`
}

// Result is what a vehicle fetch surfaces to callers. Upstream failures
// and unsupported cities both come back as an empty position list with a
// message; the poll loop treats neither as fatal.
type Result struct {
	Positions []VehiclePosition `json:"vehicles"`
	Message   string            `json:"message,omitempty"`
}
