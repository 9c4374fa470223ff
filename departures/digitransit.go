package departures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lahella-app/transit-api/geo"
)

// ErrMissingKey is returned before any upstream call when the
// subscription key is not configured.
var ErrMissingKey = errors.New("digitransit subscription key is not configured")

// Client queries the Digitransit routing GraphQL API for stops within a
// radius and for trip geometries. A failed query surfaces as a single
// error for the whole operation; partial results are never merged.
type Client struct {
	routingURL      string
	subscriptionKey string
	httpClient      *http.Client
}

func NewClient(routingURL, subscriptionKey string, timeout time.Duration) *Client {
	return &Client{
		routingURL:      routingURL,
		subscriptionKey: subscriptionKey,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

const stopsByRadiusQuery = `query ($lat: Float!, $lon: Float!, $radius: Int!) {
  stopsByRadius(lat: $lat, lon: $lon, radius: $radius) {
    edges {
      node {
        distance
        stop {
          gtfsId
          code
          name
          lat
          lon
          stoptimesWithoutPatterns(numberOfDepartures: 10) {
            scheduledDeparture
            realtimeDeparture
            serviceDay
            realtime
            departureDelay
            headsign
            trip {
              gtfsId
              route { shortName color mode }
            }
          }
        }
      }
    }
  }
}`

const tripGeometryQuery = `query ($id: String!) {
  trip(id: $id) {
    tripGeometry { points }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.subscriptionKey == "" {
		return ErrMissingKey
	}
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.routingURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("digitransit-subscription-key", c.subscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("routing api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("routing api: HTTP %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("routing api: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("routing api: %s", envelope.Errors[0].Message)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("routing api: %w", err)
	}
	return nil
}

// StopsNearby returns all stops within radiusMeters of coord, each with
// its upcoming stop-times.
func (c *Client) StopsNearby(ctx context.Context, coord geo.Coordinate, radiusMeters int) ([]NearbyStop, error) {
	var payload struct {
		StopsByRadius struct {
			Edges []struct {
				Node struct {
					Distance float64 `json:"distance"`
					Stop     struct {
						GtfsID    string  `json:"gtfsId"`
						Code      string  `json:"code"`
						Name      string  `json:"name"`
						Lat       float64 `json:"lat"`
						Lon       float64 `json:"lon"`
						Stoptimes []struct {
							ScheduledDeparture int64  `json:"scheduledDeparture"`
							RealtimeDeparture  int64  `json:"realtimeDeparture"`
							ServiceDay         int64  `json:"serviceDay"`
							Realtime           bool   `json:"realtime"`
							DepartureDelay     int    `json:"departureDelay"`
							Headsign           string `json:"headsign"`
							Trip               struct {
								GtfsID string `json:"gtfsId"`
								Route  struct {
									ShortName string `json:"shortName"`
									Color     string `json:"color"`
									Mode      string `json:"mode"`
								} `json:"route"`
							} `json:"trip"`
						} `json:"stoptimesWithoutPatterns"`
					} `json:"stop"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"stopsByRadius"`
	}

	variables := map[string]any{"lat": coord.Lat, "lon": coord.Lon, "radius": radiusMeters}
	if err := c.query(ctx, stopsByRadiusQuery, variables, &payload); err != nil {
		return nil, err
	}

	stops := make([]NearbyStop, 0, len(payload.StopsByRadius.Edges))
	for _, edge := range payload.StopsByRadius.Edges {
		node := edge.Node
		ns := NearbyStop{
			StopID:         node.Stop.GtfsID,
			StopCode:       node.Stop.Code,
			Name:           node.Stop.Name,
			Coordinate:     geo.Coordinate{Lat: node.Stop.Lat, Lon: node.Stop.Lon},
			DistanceMeters: node.Distance,
		}
		for _, st := range node.Stop.Stoptimes {
			ns.StopTimes = append(ns.StopTimes, StopTime{
				ServiceDay:         st.ServiceDay,
				ScheduledDeparture: st.ScheduledDeparture,
				RealtimeDeparture:  st.RealtimeDeparture,
				Realtime:           st.Realtime,
				DelaySeconds:       st.DepartureDelay,
				Headsign:           st.Headsign,
				TripID:             st.Trip.GtfsID,
				RouteLabel:         st.Trip.Route.ShortName,
				ColorHex:           st.Trip.Route.Color,
				Mode:               st.Trip.Route.Mode,
			})
		}
		stops = append(stops, ns)
	}
	return stops, nil
}

// TripGeometry returns the ordered polyline of a trip, for route-line
// rendering. It plays no part in matching.
func (c *Client) TripGeometry(ctx context.Context, tripID string) ([]geo.Coordinate, error) {
	var payload struct {
		Trip struct {
			TripGeometry struct {
				Points string `json:"points"`
			} `json:"tripGeometry"`
		} `json:"trip"`
	}
	if err := c.query(ctx, tripGeometryQuery, map[string]any{"id": tripID}, &payload); err != nil {
		return nil, err
	}
	if payload.Trip.TripGeometry.Points == "" {
		return nil, fmt.Errorf("no geometry for trip %s", tripID)
	}
	return decodePolyline(payload.Trip.TripGeometry.Points), nil
}
