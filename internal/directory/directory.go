// Package directory holds the built-in emergency number table. It is the
// always-available safety net under the remote number store: lookups are
// total and degrade to the universal default rather than failing.
package directory

import "github.com/onetapcall/emergency-resolver/internal/domain"

// records is the static reference table, authored region by region. It is
// populated once at process start and never mutated; Lookup and All return
// copies so callers cannot alter it.
var records = []domain.CountryRecord{
	// Europe (unified 112)
	{Country: "United Kingdom", CountryCode: "GB", Unified: "112",
		Services: domain.ServiceNumbers{Police: "999", Fire: "999", Medical: "999"}},
	{Country: "Germany", CountryCode: "DE", Unified: "112",
		Services: domain.ServiceNumbers{Police: "110", Fire: "112", Medical: "112"}},
	{Country: "France", CountryCode: "FR", Unified: "112",
		Services: domain.ServiceNumbers{Police: "17", Fire: "18", Medical: "15"}},
	{Country: "Italy", CountryCode: "IT", Unified: "112",
		Services: domain.ServiceNumbers{Police: "113", Fire: "115", Medical: "118"}},
	{Country: "Spain", CountryCode: "ES", Unified: "112",
		Services: domain.ServiceNumbers{Police: "091", Fire: "080", Medical: "061"}},

	// North America
	{Country: "United States", CountryCode: "US", Unified: "911",
		Services: domain.ServiceNumbers{Police: "911", Fire: "911", Medical: "911"}},
	{Country: "Canada", CountryCode: "CA", Unified: "911",
		Services: domain.ServiceNumbers{Police: "911", Fire: "911", Medical: "911"}},
	{Country: "Mexico", CountryCode: "MX", Unified: "911",
		Services: domain.ServiceNumbers{Police: "911", Fire: "911", Medical: "911"}},

	// Asia
	{Country: "India", CountryCode: "IN", Unified: "112",
		Services: domain.ServiceNumbers{Police: "100", Fire: "101", Medical: "102"}},
	{Country: "China", CountryCode: "CN",
		Services: domain.ServiceNumbers{Police: "110", Fire: "119", Medical: "120"}},
	{Country: "Japan", CountryCode: "JP",
		Services: domain.ServiceNumbers{Police: "110", Fire: "119", Medical: "119"}},
	{Country: "South Korea", CountryCode: "KR",
		Services: domain.ServiceNumbers{Police: "112", Fire: "119", Medical: "119"}},
	{Country: "Pakistan", CountryCode: "PK", Unified: "15",
		Services: domain.ServiceNumbers{Police: "15", Fire: "16", Medical: "1122"}},
	{Country: "Bangladesh", CountryCode: "BD", Unified: "999",
		Services: domain.ServiceNumbers{Police: "999", Fire: "999", Medical: "999"}},

	// Middle East
	{Country: "United Arab Emirates", CountryCode: "AE", Unified: "999",
		Services: domain.ServiceNumbers{Police: "999", Fire: "997", Medical: "998"}},
	{Country: "Saudi Arabia", CountryCode: "SA",
		Services: domain.ServiceNumbers{Police: "999", Fire: "998", Medical: "997"}},

	// Oceania
	{Country: "Australia", CountryCode: "AU", Unified: "000",
		Services: domain.ServiceNumbers{Police: "000", Fire: "000", Medical: "000"}},
	{Country: "New Zealand", CountryCode: "NZ", Unified: "111",
		Services: domain.ServiceNumbers{Police: "111", Fire: "111", Medical: "111"}},

	// Africa
	{Country: "South Africa", CountryCode: "ZA",
		Services: domain.ServiceNumbers{Police: "10111", Fire: "10177", Medical: "10177"}},
	{Country: "Nigeria", CountryCode: "NG",
		Services: domain.ServiceNumbers{Police: "199", Fire: "199", Medical: "199"}},

	// South America
	{Country: "Brazil", CountryCode: "BR",
		Services: domain.ServiceNumbers{Police: "190", Fire: "193", Medical: "192"}},
	{Country: "Argentina", CountryCode: "AR",
		Services: domain.ServiceNumbers{Police: "911", Fire: "100", Medical: "107"}},
}

// defaultRecord answers for unknown locations. 112 is the most widely
// accepted international emergency number.
var defaultRecord = domain.CountryRecord{
	Country:     "Unknown",
	CountryCode: domain.UnknownCountry,
	Unified:     "112",
	Services:    domain.ServiceNumbers{Police: "112", Fire: "112", Medical: "112"},
}

// byCode indexes records for O(1) lookup.
var byCode = func() map[string]domain.CountryRecord {
	m := make(map[string]domain.CountryRecord, len(records)+1)
	for _, r := range records {
		m[r.CountryCode] = r
	}
	m[defaultRecord.CountryCode] = defaultRecord
	return m
}()

// Lookup returns the record for countryCode. It never fails: unknown, empty,
// or absent codes return the universal default record.
func Lookup(countryCode string) domain.CountryRecord {
	if r, ok := byCode[countryCode]; ok {
		return r
	}
	return defaultRecord
}

// NumberFor returns the dial string for one service in one country.
func NumberFor(countryCode string, service domain.ServiceType) string {
	return Lookup(countryCode).Services.For(service)
}

// Default returns the universal "XX" record.
func Default() domain.CountryRecord {
	return defaultRecord
}

// All returns a copy of the table in authored order. The universal default
// is not listed; it is reachable only through Lookup and Default.
func All() []domain.CountryRecord {
	out := make([]domain.CountryRecord, len(records))
	copy(out, records)
	return out
}
