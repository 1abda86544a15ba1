package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	ModeCLI    = "cli"
	ModeServer = "server"
	ModeBoth   = "both"
)

type Config struct {
	Mode        string
	Port        string
	Environment string

	LotLevel           int
	LotRegularCapacity int
	LotEVCapacity      int
	DefaultStrategy    string

	TelemetryEnabled bool
	OTelServiceName  string
	OTelEndpoint     string
}

func Load() *Config {
	return &Config{
		Mode:               envOr("APP_MODE", ModeCLI),
		Port:               envOr("APP_PORT", "8080"),
		Environment:        envOr("ENVIRONMENT", "development"),
		LotLevel:           envOrInt("LOT_LEVEL", 1),
		LotRegularCapacity: envOrInt("LOT_REGULAR_CAPACITY", 10),
		LotEVCapacity:      envOrInt("LOT_EV_CAPACITY", 4),
		DefaultStrategy:    envOr("LOT_STRATEGY", "regular_first"),
		TelemetryEnabled:   envOrBool("TELEMETRY_ENABLED", true),
		OTelServiceName:    envOr("OTEL_SERVICE_NAME", "ev-parking-lot-service"),
		OTelEndpoint:       envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
	}
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeCLI, ModeServer, ModeBoth:
	default:
		errs = append(errs, fmt.Errorf("invalid mode %q: must be cli, server, or both", c.Mode))
	}

	if c.LotRegularCapacity < 0 {
		errs = append(errs, fmt.Errorf("LOT_REGULAR_CAPACITY must not be negative, got %d", c.LotRegularCapacity))
	}
	if c.LotEVCapacity < 0 {
		errs = append(errs, fmt.Errorf("LOT_EV_CAPACITY must not be negative, got %d", c.LotEVCapacity))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
