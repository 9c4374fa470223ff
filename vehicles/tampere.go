package vehicles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lahella-app/transit-api/geo"
)

// TampereAdapter reads the Tampere journeys vehicle-activity feed: an
// authenticated JSON endpoint returning a list of activity records, each
// wrapping a monitored vehicle journey with location, bearing, delay and
// onward calls. All numeric fields arrive as strings.
type TampereAdapter struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func NewTampereAdapter(baseURL, username, password string, timeout time.Duration) *TampereAdapter {
	return &TampereAdapter{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tampereActivity struct {
	RecordedAtTime          string `json:"recordedAtTime"`
	MonitoredVehicleJourney struct {
		LineRef              string `json:"lineRef"`
		DirectionRef         string `json:"directionRef"`
		VehicleRef           string `json:"vehicleRef"`
		Bearing              string `json:"bearing"`
		Speed                string `json:"speed"`
		Delay                string `json:"delay"`
		DestinationShortName string `json:"destinationShortName"`
		VehicleLocation      struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"vehicleLocation"`
		OnwardCalls []struct {
			ExpectedArrivalTime   string `json:"expectedArrivalTime"`
			ExpectedDepartureTime string `json:"expectedDepartureTime"`
			StopPointRef          string `json:"stopPointRef"`
			Order                 string `json:"order"`
		} `json:"onwardCalls"`
	} `json:"monitoredVehicleJourney"`
}

type tampereResponse struct {
	Status string            `json:"status"`
	Body   []tampereActivity `json:"body"`
}

func (a *TampereAdapter) FetchPositions(ctx context.Context, lineRef string) ([]VehiclePosition, error) {
	u := fmt.Sprintf("%s?lineRef=%s", a.baseURL, url.QueryEscape(lineRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if a.username != "" {
		req.SetBasicAuth(a.username, a.password)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tampere feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tampere feed: HTTP %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var decoded tampereResponse
	if err := json.Unmarshal(b, &decoded); err != nil {
		return nil, fmt.Errorf("tampere feed: %w", err)
	}

	positions := make([]VehiclePosition, 0, len(decoded.Body))
	for _, act := range decoded.Body {
		mvj := act.MonitoredVehicleJourney
		lat, latErr := strconv.ParseFloat(mvj.VehicleLocation.Latitude, 64)
		lon, lonErr := strconv.ParseFloat(mvj.VehicleLocation.Longitude, 64)
		if latErr != nil || lonErr != nil {
			// activity without a usable vehicle location
			continue
		}
		pos := VehiclePosition{
			Coordinate:      geo.Coordinate{Lat: lat, Lon: lon},
			VehicleID:       mvj.VehicleRef,
			DestinationName: mvj.DestinationShortName,
			DirectionID:     mvj.DirectionRef,
		}
		if bearing, err := strconv.ParseFloat(mvj.Bearing, 64); err == nil {
			pos.BearingDegrees = &bearing
		}
		if speed, err := strconv.ParseFloat(mvj.Speed, 64); err == nil {
			pos.Speed = &speed
		}
		if delay, ok := parseISODelay(mvj.Delay); ok {
			pos.DelaySeconds = &delay
		}
		if ts, err := time.Parse(time.RFC3339, act.RecordedAtTime); err == nil {
			pos.ObservedAt = ts
		}
		for i, call := range mvj.OnwardCalls {
			oc := OnwardCall{
				StopCode:      stopCodeFromRef(call.StopPointRef),
				SequenceOrder: i,
			}
			if n, err := strconv.Atoi(call.Order); err == nil {
				oc.SequenceOrder = n
			}
			if t, err := time.Parse(time.RFC3339, call.ExpectedArrivalTime); err == nil {
				oc.ExpectedArrival = &t
			}
			if t, err := time.Parse(time.RFC3339, call.ExpectedDepartureTime); err == nil {
				oc.ExpectedDeparture = &t
			}
			pos.OnwardCalls = append(pos.OnwardCalls, oc)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// stopCodeFromRef extracts the trailing path segment of a slash-delimited
// stop reference ("https://.../stop-points/3615" -> "3615").
func stopCodeFromRef(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// parseISODelay converts the feed's ISO 8601 duration delay strings
// ("P0Y0M0DT0H0M12.000S", with an optional leading minus) into whole
// seconds. Day and larger fields are ignored; real delays never reach
// them.
func parseISODelay(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	ti := strings.IndexByte(s, 'T')
	if !strings.HasPrefix(s, "P") || ti < 0 {
		return 0, false
	}
	rest := s[ti+1:]
	seconds := 0.0
	for _, unit := range []struct {
		suffix byte
		scale  float64
	}{{'H', 3600}, {'M', 60}, {'S', 1}} {
		i := strings.IndexByte(rest, unit.suffix)
		if i < 0 {
			continue
		}
		v, err := strconv.ParseFloat(rest[:i], 64)
		if err != nil {
			return 0, false
		}
		seconds += v * unit.scale
		rest = rest[i+1:]
	}
	if negative {
		seconds = -seconds
	}
	return int(seconds), true
}
