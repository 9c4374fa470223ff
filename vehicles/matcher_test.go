package vehicles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lahella-app/transit-api/geo"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func vehicleWithCall(lat, lon float64, stopCode string, arrivalIn time.Duration, now time.Time) VehiclePosition {
	arrival := now.Add(arrivalIn)
	return VehiclePosition{
		Coordinate: geo.Coordinate{Lat: lat, Lon: lon},
		OnwardCalls: []OnwardCall{
			{StopCode: stopCode, ExpectedArrival: &arrival, SequenceOrder: 1},
		},
	}
}

func TestArrivalAtStop(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("minutes from expected arrival", func(t *testing.T) {
		v := vehicleWithCall(61.5, 23.76, "3615", 5*time.Minute, now)
		minutes, ok := ArrivalAtStop(v, "3615", now)
		require.True(t, ok)
		assert.Equal(t, 5, minutes)
	})

	t.Run("falls back to expected departure", func(t *testing.T) {
		dep := now.Add(3 * time.Minute)
		v := VehiclePosition{OnwardCalls: []OnwardCall{{StopCode: "3615", ExpectedDeparture: &dep}}}
		minutes, ok := ArrivalAtStop(v, "3615", now)
		require.True(t, ok)
		assert.Equal(t, 3, minutes)
	})

	t.Run("past prediction clamps to zero", func(t *testing.T) {
		v := vehicleWithCall(61.5, 23.76, "3615", -90*time.Second, now)
		minutes, ok := ArrivalAtStop(v, "3615", now)
		require.True(t, ok)
		assert.Equal(t, 0, minutes)
	})

	t.Run("no call for the stop", func(t *testing.T) {
		v := vehicleWithCall(61.5, 23.76, "9999", 5*time.Minute, now)
		_, ok := ArrivalAtStop(v, "3615", now)
		assert.False(t, ok)
	})

	t.Run("call without any time", func(t *testing.T) {
		v := VehiclePosition{OnwardCalls: []OnwardCall{{StopCode: "3615"}}}
		_, ok := ArrivalAtStop(v, "3615", now)
		assert.False(t, ok)
	})
}

func TestSelectVehicleScheduleTier(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	stop := geo.Coordinate{Lat: 61.4981, Lon: 23.7610}

	t.Run("closest arrival within tolerance wins", func(t *testing.T) {
		vs := []VehiclePosition{
			vehicleWithCall(61.49, 23.75, "3615", 9*time.Minute, now),
			vehicleWithCall(61.51, 23.77, "3615", 6*time.Minute, now),
		}
		idx, ok := SelectVehicle(vs, "3615", intPtr(5), stop, now)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("first encountered wins ties", func(t *testing.T) {
		vs := []VehiclePosition{
			vehicleWithCall(61.49, 23.75, "3615", 6*time.Minute, now),
			vehicleWithCall(61.51, 23.77, "3615", 4*time.Minute, now),
		}
		idx, ok := SelectVehicle(vs, "3615", intPtr(5), stop, now)
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("opposite direction vehicle excluded by timing", func(t *testing.T) {
		// both on the same line; the outbound one predicts 20 min
		vs := []VehiclePosition{
			vehicleWithCall(61.49, 23.75, "3615", 20*time.Minute, now),
			vehicleWithCall(61.51, 23.77, "3615", 5*time.Minute, now),
		}
		idx, ok := SelectVehicle(vs, "3615", intPtr(5), stop, now)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})
}

func TestSelectVehicleGeometricTiers(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	stop := geo.Coordinate{Lat: 61.4981, Lon: 23.7610}

	t.Run("nearest heading toward the stop", func(t *testing.T) {
		vs := []VehiclePosition{
			// south of the stop, heading north toward it
			{Coordinate: geo.Coordinate{Lat: 61.49, Lon: 23.7610}, BearingDegrees: floatPtr(0)},
			// nearer, but heading south away from the stop
			{Coordinate: geo.Coordinate{Lat: 61.497, Lon: 23.7610}, BearingDegrees: floatPtr(180)},
		}
		idx, ok := SelectVehicle(vs, "", nil, stop, now)
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("unknown bearing counts as heading toward", func(t *testing.T) {
		vs := []VehiclePosition{
			{Coordinate: geo.Coordinate{Lat: 61.49, Lon: 23.7610}, BearingDegrees: floatPtr(180)},
			{Coordinate: geo.Coordinate{Lat: 61.497, Lon: 23.7610}},
		}
		idx, ok := SelectVehicle(vs, "", nil, stop, now)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("nearest overall when none head toward", func(t *testing.T) {
		vs := []VehiclePosition{
			{Coordinate: geo.Coordinate{Lat: 61.49, Lon: 23.7610}, BearingDegrees: floatPtr(180)},
			{Coordinate: geo.Coordinate{Lat: 61.497, Lon: 23.7610}, BearingDegrees: floatPtr(180)},
		}
		idx, ok := SelectVehicle(vs, "", nil, stop, now)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("schedule miss falls through to geometry", func(t *testing.T) {
		vs := []VehiclePosition{
			vehicleWithCall(61.49, 23.7610, "3615", 30*time.Minute, now),
		}
		idx, ok := SelectVehicle(vs, "3615", intPtr(5), stop, now)
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("empty list", func(t *testing.T) {
		_, ok := SelectVehicle(nil, "3615", intPtr(5), stop, now)
		assert.False(t, ok)
	})
}
