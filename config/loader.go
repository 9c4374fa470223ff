package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from
// config.yml, then applies environment overrides and defaults.
func LoadAppConfig() error {
	_ = godotenv.Load()

	paths := []string{"config.yml", "./deploy/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return err
	}
	if err := v.Struct(cfg.Digitransit); err != nil {
		return err
	}
	if err := v.Struct(cfg.Vehicles); err != nil {
		return err
	}
	Config = cfg
	return nil
}

// Secrets come from the environment so the YAML file can be committed.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("DIGITRANSIT_SUBSCRIPTION_KEY"); v != "" {
		cfg.Digitransit.SubscriptionKey = v
	}
	if v := os.Getenv("TAMPERE_FEED_USERNAME"); v != "" {
		cfg.Vehicles.Tampere.Username = v
	}
	if v := os.Getenv("TAMPERE_FEED_PASSWORD"); v != "" {
		cfg.Vehicles.Tampere.Password = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Digitransit.TimeoutMS == 0 {
		cfg.Digitransit.TimeoutMS = 10000
	}
	if cfg.Vehicles.TimeoutMS == 0 {
		cfg.Vehicles.TimeoutMS = 10000
	}
	if cfg.Polling.DeparturesIntervalMS == 0 {
		cfg.Polling.DeparturesIntervalMS = 30000
	}
	if cfg.Polling.VehiclesIntervalMS == 0 {
		cfg.Polling.VehiclesIntervalMS = 10000
	}
	if cfg.Search.RadiusMeters == 0 {
		cfg.Search.RadiusMeters = 500
	}
	if cfg.Search.MaxDepartures == 0 {
		cfg.Search.MaxDepartures = 20
	}
}
