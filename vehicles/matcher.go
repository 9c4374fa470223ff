package vehicles

import (
	"math"
	"time"

	"github.com/lahella-app/transit-api/geo"
)

// MatchToleranceMinutes is how far a vehicle's predicted arrival may
// differ from the displayed departure time and still count as the same
// service. Inclusive.
const MatchToleranceMinutes = 2

// ArrivalAtStop returns the minutes until the vehicle is predicted to
// reach stopCode, from its onward calls. The expected arrival time is
// preferred, falling back to the expected departure. Past predictions
// clamp to zero. The second return is false when the vehicle carries no
// usable call for the stop.
func ArrivalAtStop(v VehiclePosition, stopCode string, now time.Time) (int, bool) {
	for _, call := range v.OnwardCalls {
		if call.StopCode != stopCode {
			continue
		}
		t := call.ExpectedArrival
		if t == nil {
			t = call.ExpectedDeparture
		}
		if t == nil {
			return 0, false
		}
		minutes := int(math.Round(t.Sub(now).Minutes()))
		if minutes < 0 {
			minutes = 0
		}
		return minutes, true
	}
	return 0, false
}

// SelectVehicle picks the vehicle that best corresponds to a displayed
// departure, in three tiers:
//
//  1. schedule correlation: among vehicles whose predicted arrival at
//     stopCode is within MatchToleranceMinutes of expectedMinutes, the
//     smallest absolute difference wins (first encountered on ties);
//  2. nearest vehicle heading toward the stop;
//  3. nearest vehicle overall.
//
// Exact correlation handles multiple vehicles on the same line in
// opposite directions; the geometric tiers degrade gracefully when
// timing data is absent or skewed. Returns false only for an empty list.
func SelectVehicle(vs []VehiclePosition, stopCode string, expectedMinutes *int, stop geo.Coordinate, now time.Time) (int, bool) {
	if len(vs) == 0 {
		return 0, false
	}

	if stopCode != "" && expectedMinutes != nil {
		best := -1
		bestDiff := 0
		for i, v := range vs {
			minutes, ok := ArrivalAtStop(v, stopCode, now)
			if !ok {
				continue
			}
			diff := minutes - *expectedMinutes
			if diff < 0 {
				diff = -diff
			}
			if diff > MatchToleranceMinutes {
				continue
			}
			if best < 0 || diff < bestDiff {
				best, bestDiff = i, diff
			}
		}
		if best >= 0 {
			return best, true
		}
	}

	best := -1
	bestDist := 0.0
	for i, v := range vs {
		if !geo.IsHeadingToward(v.Coordinate, v.BearingDegrees, stop) {
			continue
		}
		d := geo.Distance(v.Coordinate, stop)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return best, true
	}

	for i, v := range vs {
		d := geo.Distance(v.Coordinate, stop)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, true
}
