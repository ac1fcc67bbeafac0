package data

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NameKey is the lookup key for a drug name: trimmed, NFC-normalized, lowercased.
func NameKey(raw string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(raw)))
}
