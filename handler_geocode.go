package transitapi

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lahella-app/transit-api/geocode"
)

const geocodeCacheTTL = 5 * time.Minute

type geocodeSearchResponse struct {
	Places    []geocode.Place `json:"places"`
	Timestamp string          `json:"timestamp"`
}

func handleGeocodeSearch(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))

	cacheKey := "geocode:search:" + strings.ToLower(text)
	if cached, ok := cache.Get(cacheKey); ok {
		if places, ok := cached.([]geocode.Place); ok {
			writeJSON(w, http.StatusOK, geocodeSearchResponse{
				Places:    places,
				Timestamp: responseTimestamp(time.Now()),
			})
			return
		}
	}

	places, err := geocodeClient.Search(r.Context(), text)
	if err != nil {
		writeGeocodeError(w, err)
		return
	}
	cache.SetTTL(cacheKey, places, geocodeCacheTTL)
	writeJSON(w, http.StatusOK, geocodeSearchResponse{
		Places:    places,
		Timestamp: responseTimestamp(time.Now()),
	})
}

func handleGeocodeReverse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coord, err := parseCoordinate(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	place, err := geocodeClient.Reverse(r.Context(), coord)
	if err != nil {
		writeGeocodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"place":     place,
		"timestamp": responseTimestamp(time.Now()),
	})
}

func writeGeocodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geocode.ErrQueryTooShort):
		writeError(w, http.StatusBadRequest, "search text is too short.")
	case errors.Is(err, geocode.ErrMissingKey):
		writeError(w, http.StatusInternalServerError, "geocoding api credentials are not configured.")
	case errors.Is(err, geocode.ErrNoResults):
		writeError(w, http.StatusNotFound, "no places found.")
	default:
		log.Printf("geocoding request failed: %v", err)
		writeError(w, http.StatusBadGateway, "geocoding api request failed.")
	}
}
