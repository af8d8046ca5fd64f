// Package config loads application settings from the environment.
// File: config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/juju/errors"
)

// DevSessionSecret is only acceptable when APP_ENV=development.
const DevSessionSecret = "footy-stadia-development-secret"

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	GeocoderGoogle = "google"
	GeocoderAWS    = "aws"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Server
	Port           int    `env:"PORT" envDefault:"8080"`
	Env            string `env:"APP_ENV" envDefault:"development"`
	ApplicationURL string `env:"APPLICATION_URL" envDefault:"http://localhost:8080"`
	TemplatesDir   string `env:"TEMPLATES_DIR" envDefault:"templates"`
	StaticDir      string `env:"STATIC_DIR" envDefault:"static"`
	LogDir         string `env:"LOG_DIR"`

	// Storage
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURL    string `env:"MONGO_URL" envDefault:"mongodb://localhost/Footy_Stadia"`

	// Sessions
	SessionSecret string `env:"SESSION_SECRET" envDefault:"footy-stadia-development-secret"`
	SessionSecure bool   `env:"SESSION_SECURE" envDefault:"false"`

	// Geocoding
	GeocoderProvider string `env:"GEOCODER_PROVIDER" envDefault:"google"`
	GeocoderAPIKey   string `env:"GEOCODER_API_KEY"`
	AWSRegion        string `env:"AWS_REGION" envDefault:"eu-west-2"`
	AWSPlaceIndex    string `env:"AWS_PLACE_INDEX"`

	// Metrics
	MetricsEnabled   bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"FootyStadia"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Annotate(err, "load .env")
	}
	return Parse()
}

// Parse parses environment variables into a Config struct.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Annotate(err, "parse config")
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks for settings that must not reach a deployed instance.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return errors.NotValidf("STORE_DRIVER %q (use %q or %q)", c.StoreDriver, StoreMongo, StoreMemory)
	}

	switch c.GeocoderProvider {
	case GeocoderGoogle:
		if c.GeocoderAPIKey == "" {
			return errors.NotValidf("empty GEOCODER_API_KEY for the %q geocoder", GeocoderGoogle)
		}
	case GeocoderAWS:
		if c.AWSPlaceIndex == "" {
			return errors.NotValidf("empty AWS_PLACE_INDEX for the %q geocoder", GeocoderAWS)
		}
	default:
		return errors.NotValidf("GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}

	if c.Env == "development" {
		return nil
	}
	if c.SessionSecret == DevSessionSecret {
		return errors.NotValidf("SESSION_SECRET set to the development default")
	}
	if len(c.SessionSecret) < 32 {
		return errors.NotValidf("SESSION_SECRET too short (%d chars, minimum 32)", len(c.SessionSecret))
	}
	return nil
}
