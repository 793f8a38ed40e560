package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2*time.Second, cfg.SplashDelay)

	assert.False(t, cfg.RemoteEnabled)
	assert.Empty(t, cfg.FirestoreProject)
	assert.Equal(t, "(default)", cfg.FirestoreDatabase)
	assert.Equal(t, "emergencyNumbers", cfg.RemoteCollection)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)

	assert.Equal(t, ProviderGeoIP, cfg.LocationProvider)
	assert.True(t, cfg.LocationConsent)
	assert.Equal(t, 10*time.Second, cfg.LocationTimeout)
	assert.Equal(t, "US", cfg.MockCountry)

	assert.Equal(t, DialModePrompt, cfg.DialMode)
	assert.Equal(t, "xdg-open", cfg.DialHandler)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SPLASH_DELAY", "500ms")
	t.Setenv("FIRESTORE_PROJECT", "onetap-prod")
	t.Setenv("REMOTE_COLLECTION", "numbers")
	t.Setenv("REMOTE_TIMEOUT", "2s")
	t.Setenv("LOCATION_PROVIDER", "mock")
	t.Setenv("LOCATION_CONSENT", "false")
	t.Setenv("MOCK_COUNTRY", "GB")
	t.Setenv("DIAL_MODE", "direct")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.SplashDelay)
	assert.True(t, cfg.RemoteEnabled, "setting the project implies the remote store")
	assert.Equal(t, "onetap-prod", cfg.FirestoreProject)
	assert.Equal(t, "numbers", cfg.RemoteCollection)
	assert.Equal(t, 2*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, ProviderMock, cfg.LocationProvider)
	assert.False(t, cfg.LocationConsent)
	assert.Equal(t, "GB", cfg.MockCountry)
	assert.Equal(t, DialModeDirect, cfg.DialMode)
}

func TestLoad_RemoteDisabledOverride(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT", "onetap-prod")
	t.Setenv("REMOTE_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.RemoteEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad splash delay", "SPLASH_DELAY", "soon"},
		{"negative timeout", "REMOTE_TIMEOUT", "-1s"},
		{"unknown provider", "LOCATION_PROVIDER", "gps"},
		{"unknown dial mode", "DIAL_MODE", "loud"},
		{"remote without project", "REMOTE_ENABLED", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
