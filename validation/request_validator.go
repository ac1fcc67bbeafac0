// Package validation checks transport input before it reaches the checker.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/interfaces"
)

const (
	// MaxNameLength bounds a single drug name, in runes
	MaxNameLength = 100
	// MaxDrugEntries bounds the raw drugs array; the distinct-drug bound is the checker's
	MaxDrugEntries = 50
	MaxDoseEntries = 50
	MaxContextKeys = 50
)

var (
	// Letters of any script, digits and the punctuation found in drug names
	// ("Amoxicillin/Clavulanate", "St. John's Wort", "Vitamin B12 (oral)", "Iron 5%",
	// "Sulfamethoxazole & Trimethoprim", "Insulin: rapid", "Vitamin D3 [cholecalciferol]", "Factor_VIII #2")
	nameRegex = regexp.MustCompile(`^[\p{L}\p{M}0-9\s\-\.\+'/(),%&:\[\]_#]+$`)

	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(", "execute(",
		"`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
		"{$ne:", "{$gt:", "{$where:", "{$regex:",
	}
)

var _ interfaces.RequestValidator = (*RequestValidatorImpl)(nil)

// RequestValidatorImpl implements the interfaces.RequestValidator interface
type RequestValidatorImpl struct{}

// NewRequestValidator creates a new request validator
func NewRequestValidator() *RequestValidatorImpl {
	return &RequestValidatorImpl{}
}

// ValidateDrugName rejects empty, oversized or unsafe names. Whether the name exists in
// the dataset is the checker's concern.
func (v *RequestValidatorImpl) ValidateDrugName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("drug name cannot be empty")
	}

	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return fmt.Errorf("drug name too long: maximum %d characters", MaxNameLength)
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("drug name contains potentially dangerous content")
		}
	}

	if !nameRegex.MatchString(trimmed) {
		return fmt.Errorf("drug name contains invalid characters")
	}

	if hasExcessiveRepetition(trimmed) {
		return fmt.Errorf("drug name contains excessive character repetition")
	}

	return nil
}

// ValidateCheckRequest bounds the request shape. Blank drug entries are allowed since the
// checker skips them.
func (v *RequestValidatorImpl) ValidateCheckRequest(req *entities.CheckRequest) error {
	if req == nil {
		return fmt.Errorf("request body is required")
	}

	if len(req.Drugs) > MaxDrugEntries {
		return fmt.Errorf("too many drug entries: maximum %d", MaxDrugEntries)
	}
	for i, drug := range req.Drugs {
		if strings.TrimSpace(drug) == "" {
			continue
		}
		if err := v.ValidateDrugName(drug); err != nil {
			return fmt.Errorf("drugs[%d]: %w", i, err)
		}
	}

	if len(req.DrugDoses) > MaxDoseEntries {
		return fmt.Errorf("too many dose entries: maximum %d", MaxDoseEntries)
	}
	for i, dose := range req.DrugDoses {
		if strings.TrimSpace(dose.Drug) == "" {
			continue
		}
		if err := v.ValidateDrugName(dose.Drug); err != nil {
			return fmt.Errorf("drug_doses[%d]: %w", i, err)
		}
	}

	if len(req.PatientContext) > MaxContextKeys {
		return fmt.Errorf("too many patient context entries: maximum %d", MaxContextKeys)
	}
	for key := range req.PatientContext {
		if utf8.RuneCountInString(key) > MaxNameLength {
			return fmt.Errorf("patient context key too long: maximum %d characters", MaxNameLength)
		}
	}

	return nil
}

// hasExcessiveRepetition reports a rune repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	run := 0
	var prev rune = -1
	for _, r := range input {
		if r == prev {
			run++
			if run > 10 {
				return true
			}
			continue
		}
		prev = r
		run = 1
	}
	return false
}
