// Package shipping computes shipping fees from the destination city.
package shipping

import "strings"

// FlatRateTable maps lowercase city names to a flat fee in cents, with a
// default for unmatched cities. Lookup is pure: no I/O, no state.
type FlatRateTable struct {
	rates           map[string]int64
	defaultFeeCents int64
}

// DefaultTable returns the standard fee table.
func DefaultTable() *FlatRateTable {
	return NewFlatRateTable(map[string]int64{
		"cairo":      5000,
		"giza":       5000,
		"alexandria": 7500,
	}, 10000)
}

// NewFlatRateTable builds a table from city→fee entries and a default fee.
// City keys are normalized to lowercase.
func NewFlatRateTable(rates map[string]int64, defaultFeeCents int64) *FlatRateTable {
	normalized := make(map[string]int64, len(rates))
	for city, fee := range rates {
		normalized[strings.ToLower(city)] = fee
	}
	return &FlatRateTable{rates: normalized, defaultFeeCents: defaultFeeCents}
}

// FeeCents returns the fee for a city, matching case-insensitively, or the
// default fee when the city is not in the table.
func (t *FlatRateTable) FeeCents(city string) int64 {
	if fee, ok := t.rates[strings.ToLower(strings.TrimSpace(city))]; ok {
		return fee
	}
	return t.defaultFeeCents
}
