package departures

import (
	"math"
	"sort"
	"time"
)

// DisplayWindowMinutes bounds how far into the future a departure may be
// and still appear on the board. Departures already gone (negative
// minutes) are dropped as well. Boundary inclusive on both ends.
const DisplayWindowMinutes = 120

// DefaultRadiusMeters is the stop search radius used when the caller
// does not specify one.
const DefaultRadiusMeters = 500

type dedupKey struct {
	route    string
	headsign string
}

// Aggregate flattens the stops' raw stop-times into displayable
// departures: in-window only, deduplicated by (route, headsign) keeping
// every departure from the geographically closest stop for that key, and
// sorted by minutes until departure. The returned list is not truncated;
// the display cap is applied at presentation time so it can move
// independently.
func Aggregate(stops []NearbyStop, now time.Time) []StopDeparture {
	var all []StopDeparture
	for _, stop := range stops {
		for _, st := range stop.StopTimes {
			realtimeAt := time.Unix(st.ServiceDay+st.RealtimeDeparture, 0)
			minutes := int(math.Round(realtimeAt.Sub(now).Minutes()))
			if minutes < 0 || minutes > DisplayWindowMinutes {
				continue
			}
			all = append(all, StopDeparture{
				RouteLabel:         st.RouteLabel,
				ColorHex:           st.ColorHex,
				Headsign:           st.Headsign,
				Mode:               st.Mode,
				MinutesUntil:       minutes,
				ScheduledAt:        time.Unix(st.ServiceDay+st.ScheduledDeparture, 0),
				RealtimeAt:         realtimeAt,
				Realtime:           st.Realtime,
				StopDistanceMeters: stop.DistanceMeters,
				StopCoordinate:     stop.Coordinate,
				StopID:             stop.StopID,
				StopCode:           stop.StopCode,
				TripID:             st.TripID,
			})
		}
	}

	// closest stop per route+direction wins; all of its departures for
	// that key are kept
	minDist := map[dedupKey]float64{}
	for _, d := range all {
		k := dedupKey{route: d.RouteLabel, headsign: d.Headsign}
		if cur, ok := minDist[k]; !ok || d.StopDistanceMeters < cur {
			minDist[k] = d.StopDistanceMeters
		}
	}
	out := make([]StopDeparture, 0, len(all))
	for _, d := range all {
		if d.StopDistanceMeters == minDist[dedupKey{route: d.RouteLabel, headsign: d.Headsign}] {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinutesUntil < out[j].MinutesUntil
	})
	return out
}
