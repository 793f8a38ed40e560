// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Location provider selection.
const (
	ProviderGeoIP = "geoip"
	ProviderMock  = "mock"
)

// Dialer modes. Prompt asks the platform for a confirmation dialog before
// the call is placed; direct dials immediately.
const (
	DialModePrompt = "prompt"
	DialModeDirect = "direct"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	SplashDelay     time.Duration

	// Remote number store configuration.
	RemoteEnabled     bool
	FirestoreProject  string
	FirestoreDatabase string
	FirestoreAPIKey   string
	RemoteCollection  string
	RemoteTimeout     time.Duration

	// Location acquisition configuration.
	LocationProvider string
	LocationConsent  bool
	LocationTimeout  time.Duration
	MockCountry      string

	// Dialer configuration.
	DialMode    string
	DialHandler string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	splashDelay, err := envDuration("SPLASH_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	remoteTimeout, err := envDuration("REMOTE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	locationTimeout, err := envDuration("LOCATION_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	project := os.Getenv("FIRESTORE_PROJECT")
	remoteEnabled := project != ""
	if v := os.Getenv("REMOTE_ENABLED"); v != "" {
		remoteEnabled = v == "true"
	}

	consent := true
	if v := os.Getenv("LOCATION_CONSENT"); v != "" {
		consent = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		SplashDelay:     splashDelay,

		RemoteEnabled:     remoteEnabled,
		FirestoreProject:  project,
		FirestoreDatabase: envOrDefault("FIRESTORE_DATABASE", "(default)"),
		FirestoreAPIKey:   os.Getenv("FIRESTORE_API_KEY"),
		RemoteCollection:  envOrDefault("REMOTE_COLLECTION", "emergencyNumbers"),
		RemoteTimeout:     remoteTimeout,

		LocationProvider: envOrDefault("LOCATION_PROVIDER", ProviderGeoIP),
		LocationConsent:  consent,
		LocationTimeout:  locationTimeout,
		MockCountry:      envOrDefault("MOCK_COUNTRY", "US"),

		DialMode:    envOrDefault("DIAL_MODE", DialModePrompt),
		DialHandler: envOrDefault("DIAL_HANDLER", "xdg-open"),
	}

	if cfg.RemoteEnabled && cfg.FirestoreProject == "" {
		return nil, errors.New("REMOTE_ENABLED is true but FIRESTORE_PROJECT is not set")
	}
	if cfg.LocationProvider != ProviderGeoIP && cfg.LocationProvider != ProviderMock {
		return nil, fmt.Errorf("invalid LOCATION_PROVIDER %q", cfg.LocationProvider)
	}
	if cfg.DialMode != DialModePrompt && cfg.DialMode != DialModeDirect {
		return nil, fmt.Errorf("invalid DIAL_MODE %q", cfg.DialMode)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}
