// Package geoip implements domain.LocationProvider over an IP geolocation
// HTTP API. It is the production provider for deployments without access to
// a platform positioning service; the fix is city-grade at best, which is
// plenty for the country-level boxes downstream.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/onetapcall/emergency-resolver/internal/domain"
)

// ipAccuracyMeters is the nominal accuracy reported for IP-based fixes.
const ipAccuracyMeters = 50000

// Provider is an IP-geolocation location provider.
type Provider struct {
	consent    bool
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewProvider creates a geoip provider. The consent flag answers the
// permission request; with no UI to prompt through, consent is a deployment
// decision.
func NewProvider(consent bool, timeout time.Duration, logger *slog.Logger) *Provider {
	return &Provider{
		consent: consent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "http://ip-api.com/json/",
		clock:   clockwork.NewRealClock(),
		logger:  logger,
	}
}

// RequestPermission reports the configured consent. Never errors.
func (p *Provider) RequestPermission(_ context.Context) (bool, error) {
	return p.consent, nil
}

// Coordinate geolocates the caller's public IP.
func (p *Provider) Coordinate(ctx context.Context) (domain.Coordinate, error) {
	u := p.baseURL + "?fields=status,message,lat,lon"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geoip request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, fmt.Errorf("geoip API error: status %d", resp.StatusCode)
	}

	var geo response
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return domain.Coordinate{}, fmt.Errorf("decode response: %w", err)
	}
	if geo.Status != "success" {
		return domain.Coordinate{}, fmt.Errorf("geoip lookup failed: %s", geo.Message)
	}

	return domain.Coordinate{
		Latitude:  geo.Lat,
		Longitude: geo.Lon,
		Accuracy:  ipAccuracyMeters,
		Timestamp: p.clock.Now(),
	}, nil
}

// ip-api.com response shape.
type response struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
