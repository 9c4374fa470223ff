package transitapi

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lahella-app/transit-api/config"
	"github.com/lahella-app/transit-api/departures"
	"github.com/lahella-app/transit-api/geocode"
	"github.com/lahella-app/transit-api/internal/metrics"
	"github.com/lahella-app/transit-api/localstore"
	"github.com/lahella-app/transit-api/vehicles"
)

var (
	server *http.Server

	collector      *metrics.Collector
	vehicleService *vehicles.Service
	transitClient  *departures.Client
	geocodeClient  *geocode.Client
	cache          localstore.Store
)

func StartServer() {
	cfg := config.Config
	collector = metrics.NewCollector()
	vehicleService = vehicles.NewService(cfg.Vehicles, collector)
	transitClient = departures.NewClient(
		cfg.Digitransit.RoutingURL,
		cfg.Digitransit.SubscriptionKey,
		time.Duration(cfg.Digitransit.TimeoutMS)*time.Millisecond,
	)
	geocodeClient = geocode.NewClient(
		cfg.Digitransit.GeocodingURL,
		cfg.Digitransit.SubscriptionKey,
		time.Duration(cfg.Digitransit.TimeoutMS)*time.Millisecond,
	)
	cache = localstore.NewMemory(5*time.Minute, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/departures", handleDepartures)
	mux.HandleFunc("/api/vehicles", handleVehicles)
	mux.HandleFunc("/api/geocode/search", handleGeocodeSearch)
	mux.HandleFunc("/api/geocode/reverse", handleGeocodeReverse)
	mux.HandleFunc("/api/geometry", handleTripGeometry)
	mux.Handle("/metrics", collector.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server = &http.Server{
		Addr:              addr,
		Handler:           withRequestID(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}
