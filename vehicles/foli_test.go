package vehicles

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const foliFixture = `{
  "status": "OK",
  "result": {
    "vehicles": {
      "80051": {
        "recordedattime": 1741600800,
        "lineref": "1",
        "directionref": "2",
        "destinationname": "Lentoasema",
        "monitored": true,
        "latitude": 60.4518,
        "longitude": 22.2666,
        "delay": "P0Y0M0DT0H1M0.000S",
        "vehicleref": "80051",
        "onwardcalls": [
          {"stoppointref": "157", "expectedarrivaltime": 1741601100, "expecteddeparturetime": 1741601130}
        ]
      },
      "80052": {
        "recordedattime": 1741600800,
        "lineref": "32",
        "monitored": true,
        "latitude": 60.45,
        "longitude": 22.27,
        "vehicleref": "80052"
      },
      "80053": {
        "recordedattime": 1741600800,
        "lineref": "1",
        "monitored": false,
        "vehicleref": "80053"
      }
    }
  }
}`

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestFoliFetchPositions(t *testing.T) {
	serveGzipped := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := []byte(foliFixture)
		if serveGzipped {
			body = gzipBytes(t, body)
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	a := NewFoliAdapter(srv.URL, 5*time.Second)

	for _, gzipped := range []bool{false, true} {
		name := "plain body"
		if gzipped {
			name = "gzipped body"
		}
		t.Run(name, func(t *testing.T) {
			serveGzipped = gzipped

			positions, err := a.FetchPositions(context.Background(), "1")
			require.NoError(t, err)

			// line 32 and the unmonitored vehicle are filtered out
			require.Len(t, positions, 1)
			pos := positions[0]
			assert.InDelta(t, 60.4518, pos.Coordinate.Lat, 1e-9)
			assert.Equal(t, "80051", pos.VehicleID)
			assert.Equal(t, "Lentoasema", pos.DestinationName)
			assert.Equal(t, "2", pos.DirectionID)
			assert.Equal(t, int64(1741600800), pos.ObservedAt.Unix())
			require.NotNil(t, pos.DelaySeconds)
			assert.Equal(t, 60, *pos.DelaySeconds)

			require.Len(t, pos.OnwardCalls, 1)
			call := pos.OnwardCalls[0]
			assert.Equal(t, "157", call.StopCode)
			require.NotNil(t, call.ExpectedArrival)
			assert.Equal(t, int64(1741601100), call.ExpectedArrival.Unix())
		})
	}
}

func TestFoliFetchPositionsExactLineMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(foliFixture))
	}))
	defer srv.Close()

	a := NewFoliAdapter(srv.URL, time.Second)

	// "3" must not match line "32"
	positions, err := a.FetchPositions(context.Background(), "3")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestDecodeFoliVehiclesBareMap(t *testing.T) {
	vehicles, err := decodeFoliVehicles([]byte(`{"80051":{"lineref":"1","latitude":60.45,"longitude":22.26}}`))
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.True(t, vehicles["80051"].HasLatitude)
}
