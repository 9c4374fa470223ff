package vehicles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tampereFixture = `{
  "status": "success",
  "body": [
    {
      "recordedAtTime": "2025-03-10T12:00:00+02:00",
      "monitoredVehicleJourney": {
        "lineRef": "3",
        "directionRef": "1",
        "vehicleRef": "121212",
        "bearing": "270.0",
        "speed": "8.5",
        "delay": "-P0Y0M0DT0H0M12.000S",
        "destinationShortName": "Lentävänniemi",
        "vehicleLocation": {"latitude": "61.498145", "longitude": "23.761025"},
        "onwardCalls": [
          {
            "expectedArrivalTime": "2025-03-10T12:05:00+02:00",
            "expectedDepartureTime": "2025-03-10T12:05:30+02:00",
            "stopPointRef": "https://data.itsfactory.fi/journeys/api/1/stop-points/3615",
            "order": "4"
          }
        ]
      }
    },
    {
      "recordedAtTime": "2025-03-10T12:00:00+02:00",
      "monitoredVehicleJourney": {
        "lineRef": "3",
        "vehicleRef": "343434",
        "vehicleLocation": {"latitude": "", "longitude": ""}
      }
    }
  ]
}`

func TestTampereFetchPositions(t *testing.T) {
	var gotAuth, gotLine string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLine = r.URL.Query().Get("lineRef")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tampereFixture))
	}))
	defer srv.Close()

	a := NewTampereAdapter(srv.URL, "user", "pass", 5*time.Second)
	positions, err := a.FetchPositions(context.Background(), "3")
	require.NoError(t, err)

	assert.NotEmpty(t, gotAuth)
	assert.Equal(t, "3", gotLine)

	// the record without a vehicle location is skipped
	require.Len(t, positions, 1)
	pos := positions[0]
	assert.InDelta(t, 61.498145, pos.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 23.761025, pos.Coordinate.Lon, 1e-9)
	assert.Equal(t, "121212", pos.VehicleID)
	assert.Equal(t, "Lentävänniemi", pos.DestinationName)
	assert.Equal(t, "1", pos.DirectionID)
	require.NotNil(t, pos.BearingDegrees)
	assert.Equal(t, 270.0, *pos.BearingDegrees)
	require.NotNil(t, pos.Speed)
	assert.Equal(t, 8.5, *pos.Speed)
	require.NotNil(t, pos.DelaySeconds)
	assert.Equal(t, -12, *pos.DelaySeconds)

	require.Len(t, pos.OnwardCalls, 1)
	call := pos.OnwardCalls[0]
	assert.Equal(t, "3615", call.StopCode)
	assert.Equal(t, 4, call.SequenceOrder)
	require.NotNil(t, call.ExpectedArrival)
	assert.Equal(t, int64(300), call.ExpectedArrival.Unix()-pos.ObservedAt.Unix())
}

func TestTampereFetchPositionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := NewTampereAdapter(srv.URL, "user", "wrong", time.Second)
	_, err := a.FetchPositions(context.Background(), "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestParseISODelay(t *testing.T) {
	tests := []struct {
		in      string
		seconds int
		ok      bool
	}{
		{in: "P0Y0M0DT0H0M12.000S", seconds: 12, ok: true},
		{in: "-P0Y0M0DT0H0M12.000S", seconds: -12, ok: true},
		{in: "P0Y0M0DT0H2M30.000S", seconds: 150, ok: true},
		{in: "P0Y0M0DT1H0M0.000S", seconds: 3600, ok: true},
		{in: "", seconds: 0, ok: false},
		{in: "not a duration", seconds: 0, ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseISODelay(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.seconds, got)
		})
	}
}

func TestStopCodeFromRef(t *testing.T) {
	assert.Equal(t, "3615", stopCodeFromRef("https://data.itsfactory.fi/journeys/api/1/stop-points/3615"))
	assert.Equal(t, "3615", stopCodeFromRef("3615"))
}
