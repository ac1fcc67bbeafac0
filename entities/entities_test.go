package entities

import (
	"encoding/json"
	"testing"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		raw        string
		expected   Severity
		recognized bool
	}{
		{"Mild", SeverityMild, true},
		{"Moderate", SeverityModerate, true},
		{"Severe", SeveritySevere, true},
		{"Critical", SeveritySevere, true},
		{"  severe ", SeveritySevere, true},
		{"", SeverityModerate, false},
		{"Major", SeverityModerate, false},
		{"No Known Interaction", SeverityModerate, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseSeverity(tt.raw)
			if got != tt.expected || ok != tt.recognized {
				t.Errorf("ParseSeverity(%q) = (%s, %v), want (%s, %v)", tt.raw, got, ok, tt.expected, tt.recognized)
			}
		})
	}
}

func TestSeverityScore(t *testing.T) {
	tests := []struct {
		severity Severity
		score    int
	}{
		{SeverityMild, 1},
		{SeverityModerate, 2},
		{SeveritySevere, 3},
		{SeverityUnknown, 0},
	}

	for _, tt := range tests {
		if got := tt.severity.Score(); got != tt.score {
			t.Errorf("%s.Score() = %d, want %d", tt.severity, got, tt.score)
		}
	}

	if SeverityUnknown.IsKnown() {
		t.Error("Unknown severity should not be known")
	}
}

func TestDoseEntryUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		drug      string
		valid     bool
		dailyDose float64
	}{
		{"number", `{"drug":"Ibuprofen","daily_dose":4000}`, "Ibuprofen", true, 4000},
		{"legacy keys", `{"name":"Ibuprofen","daily_mg":1200.5}`, "Ibuprofen", true, 1200.5},
		{"numeric string", `{"drug":"Ibuprofen","daily_dose":"800"}`, "Ibuprofen", true, 800},
		{"non numeric", `{"drug":"Ibuprofen","daily_dose":"lots"}`, "Ibuprofen", false, 0},
		{"NaN string", `{"drug":"Ibuprofen","daily_dose":"NaN"}`, "Ibuprofen", false, 0},
		{"infinity string", `{"drug":"Ibuprofen","daily_dose":"Infinity"}`, "Ibuprofen", false, 0},
		{"negative infinity string", `{"drug":"Ibuprofen","daily_dose":"-Inf"}`, "Ibuprofen", false, 0},
		{"overflowing number", `{"drug":"Ibuprofen","daily_dose":1e999}`, "Ibuprofen", false, 0},
		{"missing dose", `{"drug":"Ibuprofen"}`, "Ibuprofen", false, 0},
		{"object dose", `{"drug":"Ibuprofen","daily_dose":{"mg":3}}`, "Ibuprofen", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry DoseEntry
			if err := json.Unmarshal([]byte(tt.input), &entry); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry.Drug != tt.drug {
				t.Errorf("Drug = %q, want %q", entry.Drug, tt.drug)
			}
			if entry.DailyDose.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", entry.DailyDose.Valid, tt.valid)
			}
			if tt.valid && entry.DailyDose.Value != tt.dailyDose {
				t.Errorf("Value = %v, want %v", entry.DailyDose.Value, tt.dailyDose)
			}
		})
	}
}

func TestActiveConditions(t *testing.T) {
	var ctx PatientContext
	if err := json.Unmarshal([]byte(`{
		" Pregnancy ": true,
		"renal_impairment": false,
		"penicillin_allergy": 1,
		"asthma": "yes",
		"gout": "false",
		"diabetes": null
	}`), &ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active := ctx.ActiveConditions()

	for _, want := range []string{"pregnancy", "penicillin_allergy", "asthma"} {
		if !active[want] {
			t.Errorf("expected %q to be active", want)
		}
	}
	for _, notWant := range []string{"renal_impairment", "gout", "diabetes"} {
		if active[notWant] {
			t.Errorf("expected %q to be inactive", notWant)
		}
	}
}
