package transitapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/lahella-app/transit-api/vehicles"
)

type vehiclesResponse struct {
	Vehicles            []vehicles.VehiclePosition `json:"vehicles"`
	Message             string                     `json:"message,omitempty"`
	MatchedVehicleIndex *int                       `json:"matchedVehicleIndex,omitempty"`
	Timestamp           string                     `json:"timestamp"`
}

func handleVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lineRef := strings.TrimSpace(q.Get("line"))
	if lineRef == "" {
		writeError(w, http.StatusBadRequest, "line is required.")
		return
	}
	city := strings.ToLower(strings.TrimSpace(q.Get("city")))
	region := strings.ToLower(strings.TrimSpace(q.Get("region")))
	if city == "" && region == "" {
		writeError(w, http.StatusBadRequest, "city or region is required.")
		return
	}

	var result vehicles.Result
	if city != "" {
		result = vehicleService.PositionsForCity(r.Context(), vehicles.City(city), lineRef)
	} else {
		result = vehicleService.PositionsForRegion(r.Context(), region, lineRef)
	}

	resp := vehiclesResponse{
		Vehicles:  result.Positions,
		Message:   result.Message,
		Timestamp: responseTimestamp(time.Now()),
	}

	// Matching is attempted only when the caller identifies the stop.
	stopCode := strings.TrimSpace(q.Get("stopCode"))
	if stopCode != "" && len(result.Positions) > 0 {
		stop, err := parseCoordinate(q.Get("stopLat"), q.Get("stopLon"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "stopLat and stopLon are required for vehicle matching.")
			return
		}
		expected, err := parseOptionalInt(q.Get("arrivalMin"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "arrivalMin must be an integer.")
			return
		}
		if idx, ok := vehicles.SelectVehicle(result.Positions, stopCode, expected, stop, time.Now()); ok {
			resp.MatchedVehicleIndex = &idx
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
