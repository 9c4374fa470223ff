package vehicles

import (
	"context"
	"log"
	"time"

	"github.com/lahella-app/transit-api/config"
	"github.com/lahella-app/transit-api/internal/metrics"
)

// City selects which operator's feed format and matching rules apply.
type City string

const (
	CityTampere  City = "tampere"
	CityTurku    City = "turku"
	CityHelsinki City = "helsinki"
)

// RegionHSL is the legacy region key that maps to the Helsinki GTFS-RT
// feed; every other region value falls back to the Tampere feed. Kept for
// callers that have not migrated to the city-keyed interface.
const RegionHSL = "hsl"

// Adapter fetches a raw operator feed and normalizes it into
// VehiclePosition records for one rider-visible line.
type Adapter interface {
	FetchPositions(ctx context.Context, lineRef string) ([]VehiclePosition, error)
}

// Service dispatches to per-city adapters and absorbs every fetch or
// decode failure into an empty Result with a message. The caller polls
// continuously, so a transient miss is recoverable on the next cycle and
// must never surface as a hard error.
type Service struct {
	adapters map[City]Adapter
	metrics  *metrics.Collector
}

func NewService(cfg config.VehicleFeedsConfig, mc *metrics.Collector) *Service {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	return &Service{
		adapters: map[City]Adapter{
			CityTampere:  NewTampereAdapter(cfg.Tampere.URL, cfg.Tampere.Username, cfg.Tampere.Password, timeout),
			CityTurku:    NewFoliAdapter(cfg.Foli.URL, timeout),
			CityHelsinki: NewHSLAdapter(cfg.HSL.PositionsURL, timeout),
		},
		metrics: mc,
	}
}

// NewServiceWithAdapters is a constructor for tests and callers that
// bring their own adapters.
func NewServiceWithAdapters(adapters map[City]Adapter, mc *metrics.Collector) *Service {
	return &Service{adapters: adapters, metrics: mc}
}

// PositionsForCity returns the normalized positions for lineRef in the
// given city. An unsupported city is a first-class "not available here"
// result, distinct from a fetch failure.
func (s *Service) PositionsForCity(ctx context.Context, city City, lineRef string) Result {
	adapter, ok := s.adapters[city]
	if !ok {
		return Result{Positions: []VehiclePosition{}, Message: "live vehicle data is not available in this city"}
	}
	return s.fetch(ctx, string(city), adapter, lineRef)
}

// PositionsForRegion is the legacy two-valued dispatch: region "hsl" uses
// the Helsinki GTFS-RT feed, anything else the Tampere feed.
func (s *Service) PositionsForRegion(ctx context.Context, region, lineRef string) Result {
	city := CityTampere
	if region == RegionHSL {
		city = CityHelsinki
	}
	return s.PositionsForCity(ctx, city, lineRef)
}

func (s *Service) fetch(ctx context.Context, feed string, adapter Adapter, lineRef string) Result {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.UpstreamRequests.WithLabelValues(feed).Inc()
	}
	positions, err := adapter.FetchPositions(ctx, lineRef)
	if s.metrics != nil {
		s.metrics.FetchDuration.WithLabelValues(feed).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.UpstreamErrors.WithLabelValues(feed).Inc()
		}
		log.Printf("vehicles: %s fetch for line %q failed: %v", feed, lineRef, err)
		return Result{Positions: []VehiclePosition{}, Message: "vehicle positions are temporarily unavailable"}
	}
	if s.metrics != nil {
		s.metrics.LastPollSuccess.WithLabelValues(feed).SetToCurrentTime()
	}
	if positions == nil {
		positions = []VehiclePosition{}
	}
	return Result{Positions: positions}
}
