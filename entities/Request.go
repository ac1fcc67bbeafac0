package entities

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DoseValue is a daily dose supplied by a caller.
// Finite numbers and numeric strings are accepted; anything else leaves Valid false
// so the dosage pass can skip the entry instead of rejecting the request.
type DoseValue struct {
	Value float64
	Valid bool
}

// NewDoseValue returns a valid dose.
func NewDoseValue(v float64) DoseValue {
	return DoseValue{Value: v, Valid: true}
}

func (d *DoseValue) UnmarshalJSON(b []byte) error {
	*d = DoseValue{}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	// NaN and infinities cannot be compared or encoded in a report
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*d = NewDoseValue(f)
	return nil
}

func (d DoseValue) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

// DoseEntry is one {drug, daily dose} pair of a check request.
type DoseEntry struct {
	Drug      string    `json:"drug"`
	DailyDose DoseValue `json:"daily_dose"`
}

// UnmarshalJSON also accepts "name" for the drug and "daily_mg" for the dose.
func (e *DoseEntry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Drug      string     `json:"drug"`
		Name      string     `json:"name"`
		DailyDose *DoseValue `json:"daily_dose"`
		DailyMg   *DoseValue `json:"daily_mg"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	e.Drug = raw.Drug
	if e.Drug == "" {
		e.Drug = raw.Name
	}

	e.DailyDose = DoseValue{}
	switch {
	case raw.DailyDose != nil && raw.DailyDose.Valid:
		e.DailyDose = *raw.DailyDose
	case raw.DailyMg != nil:
		e.DailyDose = *raw.DailyMg
	}
	return nil
}

// PatientContext maps condition names to flags, e.g. {"pregnancy": true}.
type PatientContext map[string]any

// ActiveConditions returns the lowercased names of the conditions whose flag is truthy.
func (c PatientContext) ActiveConditions() map[string]bool {
	active := make(map[string]bool, len(c))
	for name, flag := range c {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || !truthy(flag) {
			continue
		}
		active[key] = true
	}
	return active
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "false", "0", "no":
			return false
		}
		return true
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// CheckRequest is the body of an interaction check.
type CheckRequest struct {
	Drugs          []string       `json:"drugs"`
	DrugDoses      []DoseEntry    `json:"drug_doses,omitempty"`
	PatientContext PatientContext `json:"patient_context,omitempty"`
}
