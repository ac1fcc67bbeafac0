package entities

// PairResult is the outcome of one unordered drug pair.
// Score is nil for pairs without a dataset entry.
type PairResult struct {
	DrugA            string   `json:"drugA"`
	DrugB            string   `json:"drugB"`
	Severity         Severity `json:"severity"`
	Score            *int     `json:"score,omitempty"`
	Description      string   `json:"description"`
	Color            string   `json:"color"`
	InteractionFound bool     `json:"interaction_found"`
}

// DrugPair names two drugs of a request.
type DrugPair struct {
	DrugA string `json:"drugA"`
	DrugB string `json:"drugB"`
}

// HighestRiskPair is the first pair carrying the highest severity weight of a report.
type HighestRiskPair struct {
	DrugA       string   `json:"drugA"`
	DrugB       string   `json:"drugB"`
	Severity    Severity `json:"severity"`
	Score       int      `json:"score"`
	Description string   `json:"description"`
}

type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type GraphEdge struct {
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Severity    Severity `json:"severity"`
	Weight      int      `json:"weight"`
	Color       string   `json:"color"`
	Description string   `json:"description"`
}

// GraphData is the node/edge view of a report. Only known pairs produce edges.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type DosageWarning struct {
	Drug         string  `json:"drug"`
	DailyDose    float64 `json:"daily_dose"`
	MaxDailyDose float64 `json:"max_daily_dose"`
	Unit         string  `json:"unit"`
	Message      string  `json:"message"`
}

type ContraindicationWarning struct {
	Drug      string `json:"drug"`
	Condition string `json:"condition"`
	Advice    string `json:"advice"`
	Message   string `json:"message"`
}

// Confidence levels of a report.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Report is the full result of an interaction check.
type Report struct {
	Drugs                    []string                  `json:"drugs"`
	PairResults              []PairResult              `json:"pair_results"`
	GraphData                GraphData                 `json:"graph_data"`
	TotalPairs               int                       `json:"total_pairs"`
	KnownPairs               int                       `json:"known_pairs"`
	UnknownPairs             int                       `json:"unknown_pairs"`
	InteractionsNotFound     []DrugPair                `json:"interactions_not_found"`
	ConfidencePercentage     float64                   `json:"confidence_percentage"`
	ConfidenceLevel          string                    `json:"confidence_level"`
	GraphDensity             float64                   `json:"graph_density"`
	TotalScore               int                       `json:"total_score"`
	MildCount                int                       `json:"mild_count"`
	ModerateCount            int                       `json:"moderate_count"`
	SevereCount              int                       `json:"severe_count"`
	OverallRisk              Severity                  `json:"overall_risk"`
	HighestRiskPair          *HighestRiskPair          `json:"highest_risk_pair,omitempty"`
	RiskExplanation          string                    `json:"risk_explanation"`
	Recommendation           string                    `json:"recommendation"`
	DataAdvisory             string                    `json:"data_advisory,omitempty"`
	DosageWarnings           []DosageWarning           `json:"dosage_warnings"`
	ContraindicationWarnings []ContraindicationWarning `json:"contraindication_warnings"`
}
