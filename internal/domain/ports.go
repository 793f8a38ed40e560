package domain

import "context"

// LocationProvider is the platform geolocation collaborator.
type LocationProvider interface {
	// RequestPermission asks for location access. It suspends until the
	// user or platform decides. A false return with nil error is an
	// ordinary denial.
	RequestPermission(ctx context.Context) (bool, error)

	// Coordinate fetches a single best-effort position fix. Callers bound
	// the wait through the context deadline.
	Coordinate(ctx context.Context) (Coordinate, error)
}

// NumberStore is the remote emergency-number collaborator.
type NumberStore interface {
	// GetAll returns every country record the store holds.
	GetAll(ctx context.Context) ([]CountryRecord, error)

	// GetByCountry returns the record for one country code, or
	// ErrRecordNotFound when the store has no such record.
	GetByCountry(ctx context.Context, countryCode string) (CountryRecord, error)

	// PutAll upserts records into the store and returns how many were
	// written. Used only by the administrative seeding path.
	PutAll(ctx context.Context, records []CountryRecord) (int, error)
}

// Dialer is the platform call collaborator.
type Dialer interface {
	// CanDial reports whether the platform can place a call to number.
	CanDial(number string) bool

	// Dial attempts to open the platform call screen for number. A failure
	// is ErrCannotDial, the one error this system shows the user.
	Dial(ctx context.Context, number string) error
}
