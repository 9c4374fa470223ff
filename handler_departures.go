package transitapi

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lahella-app/transit-api/config"
	"github.com/lahella-app/transit-api/departures"
)

type departuresResponse struct {
	Departures []departures.StopDeparture `json:"departures"`
	Timestamp  string                     `json:"timestamp"`
}

func handleDepartures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coord, err := parseCoordinate(q.Get("lat"), q.Get("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	radius, err := parsePositiveInt(q.Get("radius"), config.Config.Search.RadiusMeters)
	if err != nil {
		writeError(w, http.StatusBadRequest, "radius must be a positive integer.")
		return
	}

	stops, err := transitClient.StopsNearby(r.Context(), coord, radius)
	if err != nil {
		if errors.Is(err, departures.ErrMissingKey) {
			writeError(w, http.StatusInternalServerError, "routing api credentials are not configured.")
			return
		}
		log.Printf("stops query failed: %v", err)
		writeError(w, http.StatusBadGateway, "routing api request failed.")
		return
	}

	now := time.Now()
	list := departures.Aggregate(stops, now)
	if max := config.Config.Search.MaxDepartures; max > 0 && len(list) > max {
		list = list[:max]
	}
	writeJSON(w, http.StatusOK, departuresResponse{
		Departures: list,
		Timestamp:  responseTimestamp(now),
	})
}
