// Package entities holds the typed domain model shared by the loaders, the stores and the checker.
package entities

import "strings"

// Severity is the interaction severity of a drug pair.
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
	// SeverityUnknown marks a pair with no entry in the interaction dataset.
	SeverityUnknown Severity = "Unknown"
)

// legacyCritical is accepted in data files and folded into SeveritySevere.
const legacyCritical = "critical"

// ParseSeverity maps a raw dataset value to a Severity.
// Matching is case-insensitive. Unrecognized or empty values default to SeverityModerate,
// in which case recognized is false so the loader can report them.
func ParseSeverity(raw string) (severity Severity, recognized bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "mild":
		return SeverityMild, true
	case "moderate":
		return SeverityModerate, true
	case "severe", legacyCritical:
		return SeveritySevere, true
	default:
		return SeverityModerate, false
	}
}

// Score returns the aggregation weight: Mild=1, Moderate=2, Severe=3, 0 otherwise.
func (s Severity) Score() int {
	switch s {
	case SeverityMild:
		return 1
	case SeverityModerate:
		return 2
	case SeveritySevere:
		return 3
	default:
		return 0
	}
}

// Color returns the display color used for graph edges and pair results.
func (s Severity) Color() string {
	switch s {
	case SeverityMild:
		return "#4CAF50"
	case SeverityModerate:
		return "#FF9800"
	case SeveritySevere:
		return "#F44336"
	default:
		return "#9E9E9E"
	}
}

// IsKnown reports whether s comes from a dataset entry.
func (s Severity) IsKnown() bool {
	return s.Score() > 0
}
