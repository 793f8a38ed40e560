// Package location orchestrates permission request and coordinate fetch,
// normalizing every provider failure into a tagged outcome. Acquire never
// returns an error: the navigation controller must always be able to carry
// on to a usable default.
package location

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/onetapcall/emergency-resolver/internal/domain"
	"github.com/onetapcall/emergency-resolver/internal/observability"
)

// Status tags the result of one acquisition attempt.
type Status string

const (
	StatusGranted     Status = "granted"
	StatusDenied      Status = "denied"
	StatusUnavailable Status = "unavailable"
)

// Outcome is the uniform result of Acquire. Coordinate is only meaningful
// when Status is granted; Reason is only set when it is not.
type Outcome struct {
	Status     Status
	Coordinate domain.Coordinate
	Reason     string
}

// Acquirer runs the permission-then-fetch sequence against a provider.
type Acquirer struct {
	provider domain.LocationProvider
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewAcquirer creates an Acquirer. The timeout bounds the coordinate fetch,
// not the permission prompt, which waits on the user.
func NewAcquirer(provider domain.LocationProvider, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Acquirer {
	return &Acquirer{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Acquire requests permission and fetches one coordinate. A denial skips the
// fetch entirely; any provider error becomes an unavailable outcome.
func (a *Acquirer) Acquire(ctx context.Context) Outcome {
	granted, err := a.provider.RequestPermission(ctx)
	if err != nil {
		a.logger.Warn("location permission request failed", "error", err)
		return a.record(Outcome{
			Status: StatusUnavailable,
			Reason: fmt.Sprintf("permission request failed: %v", err),
		})
	}
	if !granted {
		return a.record(Outcome{
			Status: StatusDenied,
			Reason: domain.ErrPermissionDenied.Error(),
		})
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	coord, err := a.provider.Coordinate(fetchCtx)
	if err != nil {
		a.logger.Warn("coordinate fetch failed", "error", err)
		return a.record(Outcome{
			Status: StatusUnavailable,
			Reason: fmt.Sprintf("%v: %v", domain.ErrLocationUnavailable, err),
		})
	}

	return a.record(Outcome{Status: StatusGranted, Coordinate: coord})
}

func (a *Acquirer) record(o Outcome) Outcome {
	a.metrics.LocationOutcomes.WithLabelValues(string(o.Status)).Inc()
	return o
}

// FormatDisplay renders a coordinate and country code for the frontend's
// location line, e.g. "US (40.7128, -74.0060)".
func FormatDisplay(coord domain.Coordinate, countryCode string) string {
	return fmt.Sprintf("%s (%.4f, %.4f)", countryCode, coord.Latitude, coord.Longitude)
}
