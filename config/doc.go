// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Secrets (the Digitransit subscription key and the Tampere feed
// credentials) can be supplied through the environment or a .env file and
// always win over the YAML values.
package config
