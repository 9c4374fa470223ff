package transitapi

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lahella-app/transit-api/departures"
	"github.com/lahella-app/transit-api/geo"
)

const geometryCacheTTL = 10 * time.Minute

type geometryResponse struct {
	TripID    string           `json:"tripId"`
	Points    []geo.Coordinate `json:"points"`
	Timestamp string           `json:"timestamp"`
}

func handleTripGeometry(w http.ResponseWriter, r *http.Request) {
	tripID := strings.TrimSpace(r.URL.Query().Get("tripId"))
	if tripID == "" {
		writeError(w, http.StatusBadRequest, "tripId is required.")
		return
	}

	cacheKey := "geometry:" + tripID
	if cached, ok := cache.Get(cacheKey); ok {
		if points, ok := cached.([]geo.Coordinate); ok {
			writeJSON(w, http.StatusOK, geometryResponse{
				TripID:    tripID,
				Points:    points,
				Timestamp: responseTimestamp(time.Now()),
			})
			return
		}
	}

	points, err := transitClient.TripGeometry(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, departures.ErrMissingKey) {
			writeError(w, http.StatusInternalServerError, "routing api credentials are not configured.")
			return
		}
		log.Printf("trip geometry query failed: %v", err)
		writeError(w, http.StatusBadGateway, "routing api request failed.")
		return
	}
	cache.SetTTL(cacheKey, points, geometryCacheTTL)
	writeJSON(w, http.StatusOK, geometryResponse{
		TripID:    tripID,
		Points:    points,
		Timestamp: responseTimestamp(time.Now()),
	})
}
