// Package geocode proxies the Digitransit geocoding API: free-text
// search to ranked places and reverse lookup of the nearest label.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lahella-app/transit-api/geo"
)

// MinSearchRunes is the shortest accepted search text. Shorter queries
// are rejected before any upstream call is made.
const MinSearchRunes = 3

var (
	ErrQueryTooShort = errors.New("search text is too short")
	ErrMissingKey    = errors.New("digitransit subscription key is not configured")
	ErrNoResults     = errors.New("no places found")
)

// Place is one geocoding result.
type Place struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Label      string         `json:"label"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

type Client struct {
	baseURL         string
	subscriptionKey string
	httpClient      *http.Client
}

func NewClient(baseURL, subscriptionKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:         baseURL,
		subscriptionKey: subscriptionKey,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

type featureCollection struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lon, lat
		} `json:"geometry"`
		Properties struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Search returns places matching text, best first.
func (c *Client) Search(ctx context.Context, text string) ([]Place, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < MinSearchRunes {
		return nil, ErrQueryTooShort
	}
	params := url.Values{}
	params.Set("text", text)
	params.Set("size", "5")
	params.Set("lang", "fi")
	return c.fetchPlaces(ctx, c.baseURL+"/search?"+params.Encode())
}

// Reverse returns the place nearest to coord.
func (c *Client) Reverse(ctx context.Context, coord geo.Coordinate) (Place, error) {
	params := url.Values{}
	params.Set("point.lat", fmt.Sprintf("%.6f", coord.Lat))
	params.Set("point.lon", fmt.Sprintf("%.6f", coord.Lon))
	params.Set("size", "1")
	places, err := c.fetchPlaces(ctx, c.baseURL+"/reverse?"+params.Encode())
	if err != nil {
		return Place{}, err
	}
	if len(places) == 0 {
		return Place{}, ErrNoResults
	}
	return places[0], nil
}

func (c *Client) fetchPlaces(ctx context.Context, fullURL string) ([]Place, error) {
	if c.subscriptionKey == "" {
		return nil, ErrMissingKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("digitransit-subscription-key", c.subscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding api: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding api: HTTP %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("geocoding api: %w", err)
	}
	places := make([]Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		places = append(places, Place{
			ID:    f.Properties.ID,
			Name:  f.Properties.Name,
			Label: f.Properties.Label,
			Coordinate: geo.Coordinate{
				Lat: f.Geometry.Coordinates[1],
				Lon: f.Geometry.Coordinates[0],
			},
		})
	}
	return places, nil
}
