// Package resolver answers "what number do I dial" with a tiered read:
// remote store if reachable, built-in directory otherwise, universal default
// when the country is unknown. The remote tier is authoritative when it
// answers, but correctness never depends on it; there are no retries because
// emergency use cannot absorb retry latency.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/onetapcall/emergency-resolver/internal/directory"
	"github.com/onetapcall/emergency-resolver/internal/domain"
	"github.com/onetapcall/emergency-resolver/internal/observability"
)

// Service resolves countries and service types to dial numbers.
type Service struct {
	store   domain.NumberStore // nil disables the remote tier
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a resolution service. Pass a nil store to run local-only.
func New(store domain.NumberStore, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Resolve returns the dial number for one service in one country. Every
// failure degrades to the next tier; the result is always dialable.
func (s *Service) Resolve(ctx context.Context, countryCode string, service domain.ServiceType) domain.ResolutionResult {
	if countryCode == "" || countryCode == domain.UnknownCountry {
		return s.finish(domain.ResolutionResult{
			CountryCode: domain.UnknownCountry,
			DialNumber:  directory.Default().Services.For(service),
			Source:      domain.SourceDefault,
		}, service)
	}

	if s.store != nil {
		rec, err := s.store.GetByCountry(ctx, countryCode)
		switch {
		case err == nil && rec.Services.Complete():
			return s.finish(domain.ResolutionResult{
				CountryCode: countryCode,
				DialNumber:  rec.Services.For(service),
				Source:      domain.SourceRemote,
			}, service)
		case err == nil:
			// A partial record is as useless as no record for this dial.
			s.logger.Warn("remote record malformed, using local directory",
				"country", countryCode)
		case errors.Is(err, domain.ErrRecordNotFound):
			s.logger.Debug("country not in remote store, using local directory",
				"country", countryCode)
		default:
			s.logger.Warn("remote lookup failed, using local directory",
				"country", countryCode, "error", err)
		}
	}

	rec := directory.Lookup(countryCode)
	result := domain.ResolutionResult{
		CountryCode: rec.CountryCode,
		DialNumber:  rec.Services.For(service),
		Source:      domain.SourceLocalFallback,
	}
	if rec.CountryCode == domain.UnknownCountry {
		result.Source = domain.SourceDefault
	}
	return s.finish(result, service)
}

// ResolveByCountry returns the full record for one country with the same
// tiered policy as Resolve.
func (s *Service) ResolveByCountry(ctx context.Context, countryCode string) domain.CountryRecord {
	if countryCode == "" || countryCode == domain.UnknownCountry {
		return directory.Default()
	}

	if s.store != nil {
		rec, err := s.store.GetByCountry(ctx, countryCode)
		if err == nil && rec.Services.Complete() {
			return rec
		}
		if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
			s.logger.Warn("remote lookup failed, using local directory",
				"country", countryCode, "error", err)
		}
	}

	return directory.Lookup(countryCode)
}

// ResolveAll returns every known country record, materialized. The remote
// listing wins when it is reachable and non-empty; otherwise the built-in
// table answers.
func (s *Service) ResolveAll(ctx context.Context) []domain.CountryRecord {
	if s.store != nil {
		records, err := s.store.GetAll(ctx)
		if err != nil {
			s.logger.Warn("remote listing failed, using local directory", "error", err)
		} else if valid := wellFormed(records); len(valid) > 0 {
			return valid
		}
	}
	return directory.All()
}

func (s *Service) finish(r domain.ResolutionResult, service domain.ServiceType) domain.ResolutionResult {
	s.metrics.Resolutions.WithLabelValues(string(service), string(r.Source)).Inc()
	return r
}

func wellFormed(records []domain.CountryRecord) []domain.CountryRecord {
	out := make([]domain.CountryRecord, 0, len(records))
	for _, r := range records {
		if r.CountryCode != "" && r.Services.Complete() {
			out = append(out, r)
		}
	}
	return out
}
