// Package georesolver maps a coordinate to a best-guess country code using
// an ordered list of bounding-box rules. The granularity is deliberately
// coarse, continent and sub-continent boxes only; the contract is that every
// coordinate yields some defined country code, with "XX" for open ocean and
// unlisted regions. It is not reverse geocoding and never touches the
// network.
package georesolver

import "github.com/onetapcall/emergency-resolver/internal/domain"

// rule is one rectangular region mapped to a country code. Bounds are
// inclusive on all four edges.
type rule struct {
	latMin, latMax float64
	lonMin, lonMax float64
	country        string
}

func (r rule) contains(lat, lon float64) bool {
	return lat >= r.latMin && lat <= r.latMax && lon >= r.lonMin && lon <= r.lonMax
}

// rules are evaluated top to bottom and the first match wins. Regions
// overlap on purpose: a narrow box placed above a broad one carves a
// sub-region out of it (Mexico out of North America, the UK and Germany out
// of Europe), so the order is load-bearing. Narrow boxes are pre-intersected
// with their parent region so a point just outside the parent cannot match
// the child.
var rules = []rule{
	// North America, Mexico carved out of the broad US/Canada box.
	{15, 32, -118, -52, "MX"},
	{15, 72, -168, -52, "US"},

	// Europe, UK then Germany, everything else defaults to the UK numbers.
	{49, 55, -8, 2, "GB"},
	{47, 55, 6, 15, "DE"},
	{36, 71, -10, 40, "GB"},

	// South Asia, Pakistan west of 75E, the rest to India.
	{8, 35, 68, 75, "PK"},
	{8, 35, 68, 88, "IN"},

	// East Asia. Korea wins the 130..131E overlap with Japan.
	{20, 46, 126, 131, "KR"},
	{20, 46, 130, 145, "JP"},
	{20, 46, 100, 145, "CN"},

	// Australia.
	{-44, -10, 113, 154, "AU"},

	// Middle East, UAE carved out of the Saudi box.
	{12, 42, 51, 56, "AE"},
	{12, 42, 34, 63, "SA"},
}

// CountryFromCoordinate returns the country code for a coordinate, or "XX"
// when no region matches. Pure and deterministic.
func CountryFromCoordinate(lat, lon float64) string {
	for _, r := range rules {
		if r.contains(lat, lon) {
			return r.country
		}
	}
	return domain.UnknownCountry
}
