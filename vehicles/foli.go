package vehicles

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lahella-app/transit-api/geo"
)

// FoliAdapter reads the Föli (Turku) vehicle monitoring feed: an
// unauthenticated endpoint whose body may be gzip-compressed, carrying a
// map from vehicle ref to a flat record. Records are filtered by exact
// line ref match; the feed has no per-line query parameter.
type FoliAdapter struct {
	url        string
	httpClient *http.Client
}

func NewFoliAdapter(url string, timeout time.Duration) *FoliAdapter {
	return &FoliAdapter{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type foliVehicle struct {
	RecordedAtTime  int64  `json:"recordedattime"`
	LineRef         string `json:"lineref"`
	DirectionRef    string `json:"directionref"`
	DestinationName string `json:"destinationname"`
	Monitored       bool   `json:"monitored"`
	Latitude        float64
	Longitude       float64
	HasLatitude     bool   `json:"-"`
	Delay           string `json:"delay"`
	VehicleRef      string `json:"vehicleref"`
	OnwardCalls     []struct {
		StopPointRef          string `json:"stoppointref"`
		ExpectedArrivalTime   int64  `json:"expectedarrivaltime"`
		ExpectedDepartureTime int64  `json:"expecteddeparturetime"`
	} `json:"onwardcalls"`
}

// UnmarshalJSON keeps track of whether the record carried coordinates at
// all; zero values are valid coordinates elsewhere but here they mean an
// unmonitored vehicle.
func (v *foliVehicle) UnmarshalJSON(data []byte) error {
	type alias foliVehicle
	aux := struct {
		*alias
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}{alias: (*alias)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Latitude != nil && aux.Longitude != nil {
		v.Latitude = *aux.Latitude
		v.Longitude = *aux.Longitude
		v.HasLatitude = true
	}
	return nil
}

type foliEnvelope struct {
	Status string `json:"status"`
	Result struct {
		Vehicles map[string]foliVehicle `json:"vehicles"`
	} `json:"result"`
}

func (a *FoliAdapter) FetchPositions(ctx context.Context, lineRef string) ([]VehiclePosition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("föli feed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("föli feed: HTTP %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	body := gunzipOrPassthrough(raw)

	vehicles, err := decodeFoliVehicles(body)
	if err != nil {
		return nil, fmt.Errorf("föli feed: %w", err)
	}

	positions := make([]VehiclePosition, 0, 8)
	for ref, v := range vehicles {
		if v.LineRef != lineRef || !v.HasLatitude {
			continue
		}
		pos := VehiclePosition{
			Coordinate:      geo.Coordinate{Lat: v.Latitude, Lon: v.Longitude},
			ObservedAt:      time.Unix(v.RecordedAtTime, 0),
			VehicleID:       v.VehicleRef,
			DestinationName: v.DestinationName,
			DirectionID:     v.DirectionRef,
		}
		if pos.VehicleID == "" {
			pos.VehicleID = ref
		}
		if delay, ok := parseISODelay(v.Delay); ok {
			pos.DelaySeconds = &delay
		}
		for i, call := range v.OnwardCalls {
			oc := OnwardCall{StopCode: call.StopPointRef, SequenceOrder: i}
			if call.ExpectedArrivalTime > 0 {
				t := time.Unix(call.ExpectedArrivalTime, 0)
				oc.ExpectedArrival = &t
			}
			if call.ExpectedDepartureTime > 0 {
				t := time.Unix(call.ExpectedDepartureTime, 0)
				oc.ExpectedDeparture = &t
			}
			pos.OnwardCalls = append(pos.OnwardCalls, oc)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// decodeFoliVehicles accepts both the enveloped form
// ({"result":{"vehicles":{...}}}) and a bare keyed map.
func decodeFoliVehicles(body []byte) (map[string]foliVehicle, error) {
	var envelope foliEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Result.Vehicles != nil {
		return envelope.Result.Vehicles, nil
	}
	var bare map[string]foliVehicle
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}

// gunzipOrPassthrough attempts gzip decompression and falls back to the
// raw bytes: the upstream serves compressed bodies without a reliable
// Content-Encoding header.
func gunzipOrPassthrough(raw []byte) []byte {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	defer func() { _ = zr.Close() }()
	out, err := io.ReadAll(zr)
	if err != nil {
		return raw
	}
	return out
}
