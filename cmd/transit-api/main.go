package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	transitapi "github.com/lahella-app/transit-api"
	"github.com/lahella-app/transit-api/config"
	"github.com/lahella-app/transit-api/departures"
	"github.com/lahella-app/transit-api/geo"
	"github.com/lahella-app/transit-api/internal/metrics"
	"github.com/lahella-app/transit-api/poll"
	"github.com/lahella-app/transit-api/vehicles"
)

func main() {
	mode := flag.String("mode", "serve", "serve|departures|vehicles|watch")
	lat := flag.Float64("lat", 0, "latitude for departures/watch")
	lon := flag.Float64("lon", 0, "longitude for departures/watch")
	radius := flag.Int("radius", 0, "search radius in meters (0 = config default)")
	city := flag.String("city", "", "city for vehicles: tampere|turku|helsinki")
	region := flag.String("region", "", "legacy region key for vehicles")
	line := flag.String("line", "", "line filter for vehicles")
	flag.Parse()

	transitapi.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "serve":
		transitapi.StartServer()
		transitapi.HandleGracefulShutdown()
	case "departures":
		if err := printDepartures(*lat, *lon, *radius); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	case "vehicles":
		if err := printVehicles(*city, *region, *line); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	case "watch":
		if err := watchDepartures(*lat, *lon, *radius); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(1)
	}
}

func newTransitClient() *departures.Client {
	cfg := config.Config.Digitransit
	return departures.NewClient(cfg.RoutingURL, cfg.SubscriptionKey, time.Duration(cfg.TimeoutMS)*time.Millisecond)
}

func fetchDepartures(ctx context.Context, lat, lon float64, radius int) ([]departures.StopDeparture, error) {
	coord := geo.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return nil, fmt.Errorf("invalid coordinates %f,%f", lat, lon)
	}
	if radius <= 0 {
		radius = config.Config.Search.RadiusMeters
	}
	stops, err := newTransitClient().StopsNearby(ctx, coord, radius)
	if err != nil {
		return nil, err
	}
	return departures.Aggregate(stops, time.Now()), nil
}

func printDepartures(lat, lon float64, radius int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	list, err := fetchDepartures(ctx, lat, lon, radius)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(list)
}

func printVehicles(city, region, line string) error {
	if line == "" {
		return fmt.Errorf("vehicles mode requires -line")
	}
	svc := vehicles.NewService(config.Config.Vehicles, metrics.NewCollector())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var result vehicles.Result
	switch {
	case city != "":
		result = svc.PositionsForCity(ctx, vehicles.City(city), line)
	case region != "":
		result = svc.PositionsForRegion(ctx, region, line)
	default:
		return fmt.Errorf("vehicles mode requires -city or -region")
	}
	return json.NewEncoder(os.Stdout).Encode(result)
}

// watchDepartures polls the departure board on the configured interval
// and prints each fresh snapshot, the way the server's clients consume
// it.
func watchDepartures(lat, lon float64, radius int) error {
	interval := time.Duration(config.Config.Polling.DeparturesIntervalMS) * time.Millisecond
	stream := poll.NewStream(interval, func(ctx context.Context) ([]departures.StopDeparture, error) {
		return fetchDepartures(ctx, lat, lon, radius)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream.Start(ctx)
	defer stream.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	enc := json.NewEncoder(os.Stdout)
	for {
		select {
		case <-ticker.C:
			if err := stream.Err(); err != nil {
				fmt.Fprintf(os.Stderr, "poll: %v\n", err)
			}
			if list, ok := stream.Latest(); ok {
				_ = enc.Encode(list)
			}
		case <-sigs:
			return nil
		}
	}
}
