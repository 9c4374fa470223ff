package vehicles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func hslFeedFixture(t *testing.T) []byte {
	t.Helper()
	fm := &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
		},
		Entity: []*gtfsrtpb.FeedEntity{
			{
				Id: proto.String("1"),
				Vehicle: &gtfsrtpb.VehiclePosition{
					Trip: &gtfsrtpb.TripDescriptor{
						RouteId:     proto.String("1065"),
						DirectionId: proto.Uint32(0),
					},
					Position: &gtfsrtpb.Position{
						Latitude:  proto.Float32(60.1699),
						Longitude: proto.Float32(24.9384),
						Bearing:   proto.Float32(45),
						Speed:     proto.Float32(11.2),
					},
					Timestamp: proto.Uint64(1741600800),
					Vehicle: &gtfsrtpb.VehicleDescriptor{
						Id: proto.String("HSL_1234"),
					},
				},
			},
			{
				Id: proto.String("2"),
				Vehicle: &gtfsrtpb.VehiclePosition{
					Trip: &gtfsrtpb.TripDescriptor{RouteId: proto.String("2550")},
					Position: &gtfsrtpb.Position{
						Latitude:  proto.Float32(60.17),
						Longitude: proto.Float32(24.94),
					},
				},
			},
			// entity without a vehicle position block
			{Id: proto.String("3")},
		},
	}
	b, err := proto.Marshal(fm)
	require.NoError(t, err)
	return b
}

func TestHSLFetchPositions(t *testing.T) {
	fixture := hslFeedFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-protobuf")
		_, _ = w.Write(fixture)
	}))
	defer srv.Close()

	a := NewHSLAdapter(srv.URL, 5*time.Second)
	positions, err := a.FetchPositions(context.Background(), "65")
	require.NoError(t, err)

	// route 2550 does not correspond to line 65
	require.Len(t, positions, 1)
	pos := positions[0]
	assert.InDelta(t, 60.1699, pos.Coordinate.Lat, 1e-4)
	assert.InDelta(t, 24.9384, pos.Coordinate.Lon, 1e-4)
	assert.Equal(t, "HSL_1234", pos.VehicleID)
	assert.Equal(t, "0", pos.DirectionID)
	assert.Equal(t, int64(1741600800), pos.ObservedAt.Unix())
	require.NotNil(t, pos.BearingDegrees)
	assert.InDelta(t, 45, *pos.BearingDegrees, 1e-6)
}

func TestHSLFetchPositionsBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not a protobuf message"))
	}))
	defer srv.Close()

	a := NewHSLAdapter(srv.URL, time.Second)
	_, err := a.FetchPositions(context.Background(), "65")
	assert.Error(t, err)
}
