package entities

// Interaction is a stored interaction between two canonical drugs.
// The same value is reachable from both directions of the pair.
type Interaction struct {
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// DosageLimit is the maximum daily dose known for a drug.
type DosageLimit struct {
	MaxDailyDose float64 `json:"max_daily_dose"`
	Unit         string  `json:"unit"`
	Route        string  `json:"route,omitempty"`
}

// Contraindications maps a condition name (e.g. "pregnancy") to advice text.
type Contraindications map[string]string

// DrugInfo describes a single drug of the dataset.
type DrugInfo struct {
	Name                      string       `json:"name"`
	InDatabase                bool         `json:"in_database"`
	InteractionCount          int          `json:"interaction_count"`
	HasDosageLimit            bool         `json:"has_dosage_limit"`
	DosageLimit               *DosageLimit `json:"dosage_limit,omitempty"`
	ContraindicatedConditions []string     `json:"contraindicated_conditions"`
}
