package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0"`
}

// DigitransitConfig points at the routing (stop-radius departures, trip
// geometry) and geocoding APIs. Both require a subscription key.
type DigitransitConfig struct {
	RoutingURL      string `yaml:"routingURL" validate:"omitempty,url"`
	GeocodingURL    string `yaml:"geocodingURL" validate:"omitempty,url"`
	SubscriptionKey string `yaml:"subscriptionKey"`
	TimeoutMS       int    `yaml:"timeoutMS" validate:"gte=0"`
}

// TampereFeedConfig is the authenticated Tampere vehicle-activity feed.
type TampereFeedConfig struct {
	URL      string `yaml:"url" validate:"omitempty,url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// FoliFeedConfig is the Föli (Turku) vehicle monitoring feed.
type FoliFeedConfig struct {
	URL string `yaml:"url" validate:"omitempty,url"`
}

// HSLFeedConfig is the Helsinki region GTFS-RT feed.
type HSLFeedConfig struct {
	PositionsURL string `yaml:"positionsURL" validate:"omitempty,url"`
}

// VehicleFeedsConfig groups the per-operator vehicle position feeds.
type VehicleFeedsConfig struct {
	Tampere   TampereFeedConfig `yaml:"tampere"`
	Foli      FoliFeedConfig    `yaml:"foli"`
	HSL       HSLFeedConfig     `yaml:"hsl"`
	TimeoutMS int               `yaml:"timeoutMS" validate:"gte=0"`
}

// PollingConfig holds the fixed refresh cadences. Departures refresh on a
// 30 second timer; vehicle positions every 10 seconds while a map view is
// open. Neither is adaptive.
type PollingConfig struct {
	DeparturesIntervalMS int `yaml:"departuresIntervalMS" validate:"gte=0"`
	VehiclesIntervalMS   int `yaml:"vehiclesIntervalMS" validate:"gte=0"`
}

// SearchConfig holds the stop search defaults.
type SearchConfig struct {
	RadiusMeters  int `yaml:"radiusMeters" validate:"gte=0"`
	MaxDepartures int `yaml:"maxDepartures" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server      ServerConfig       `yaml:"server" validate:"required"`
	Digitransit DigitransitConfig  `yaml:"digitransit"`
	Vehicles    VehicleFeedsConfig `yaml:"vehicles"`
	Polling     PollingConfig      `yaml:"polling"`
	Search      SearchConfig       `yaml:"search"`
}
