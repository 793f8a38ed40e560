package domain

import (
	"fmt"
	"time"
)

// UnknownCountry is the reserved country code of the universal default record.
const UnknownCountry = "XX"

// ServiceType identifies one of the three emergency services.
type ServiceType string

const (
	ServicePolice  ServiceType = "police"
	ServiceFire    ServiceType = "fire"
	ServiceMedical ServiceType = "medical"
)

// ServiceTypes lists all valid service types in display order.
var ServiceTypes = []ServiceType{ServicePolice, ServiceFire, ServiceMedical}

// Valid reports whether s is one of the three known service types.
func (s ServiceType) Valid() bool {
	switch s {
	case ServicePolice, ServiceFire, ServiceMedical:
		return true
	}
	return false
}

// DisplayName returns the user-facing label for the service type.
func (s ServiceType) DisplayName() string {
	switch s {
	case ServicePolice:
		return "Police"
	case ServiceFire:
		return "Fire Service"
	case ServiceMedical:
		return "Hospital / Ambulance"
	}
	return string(s)
}

// ParseServiceType converts a wire string into a ServiceType.
func ParseServiceType(s string) (ServiceType, error) {
	st := ServiceType(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown service type %q", s)
	}
	return st, nil
}

// ServiceNumbers holds the dial strings for all three services. The three
// fields are always populated; a record with a blank number is malformed.
type ServiceNumbers struct {
	Police  string `json:"police"`
	Fire    string `json:"fire"`
	Medical string `json:"medical"`
}

// For returns the dial string for the given service type.
func (n ServiceNumbers) For(s ServiceType) string {
	switch s {
	case ServicePolice:
		return n.Police
	case ServiceFire:
		return n.Fire
	case ServiceMedical:
		return n.Medical
	}
	return ""
}

// Complete reports whether every service has a non-empty dial string.
func (n ServiceNumbers) Complete() bool {
	return n.Police != "" && n.Fire != "" && n.Medical != ""
}

// CountryRecord is one country's emergency number entry.
type CountryRecord struct {
	Country     string         `json:"country"`
	CountryCode string         `json:"countryCode"`
	Services    ServiceNumbers `json:"services"`
	Unified     string         `json:"unified,omitempty"`
}

// Coordinate is a single best-effort device position fix.
type Coordinate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // meters
	Timestamp time.Time `json:"timestamp"`
}

// Source tags where a resolved dial number came from.
type Source string

const (
	// SourceRemote means the remote number store answered.
	SourceRemote Source = "remote"
	// SourceLocalFallback means the remote store was unreachable or had no
	// record and the built-in directory answered.
	SourceLocalFallback Source = "local"
	// SourceDefault means the country was never resolved and the universal
	// default record answered.
	SourceDefault Source = "default"
)

// ResolutionResult is the outcome of one resolution attempt. It is created
// fresh per attempt, handed to the navigation controller, and never stored.
type ResolutionResult struct {
	CountryCode string `json:"countryCode"`
	DialNumber  string `json:"dialNumber"`
	Source      Source `json:"source"`
	Warning     string `json:"warning,omitempty"`
}
