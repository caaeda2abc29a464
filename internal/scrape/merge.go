package scrape

import "github.com/lcasucciIT/azure-openai-retirement/internal/domain"

// Merge unions two lookups into a fresh one. On key collision the record
// from override replaces the base record entirely; there is no
// field-level merging. Neither input is mutated.
func Merge(base, override domain.RetirementLookup) domain.RetirementLookup {
	merged := make(domain.RetirementLookup, len(base)+len(override))
	for key, record := range base {
		merged[key] = record
	}
	for key, record := range override {
		merged[key] = record
	}
	return merged
}
