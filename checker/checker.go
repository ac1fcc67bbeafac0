// Package checker scores drug combinations against the loaded interaction dataset
// and flags dosage and contraindication warnings.
package checker

import (
	"math"
	"slices"

	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/interfaces"
)

const (
	MinDrugs = 2
	MaxDrugs = 10

	// maxEdgeDescription bounds graph edge descriptions, ellipsis included.
	maxEdgeDescription = 150

	noInteractionDescription = "No interaction found in the current offline database."
)

var _ interfaces.InteractionChecker = (*Checker)(nil)

// Checker is stateless apart from the read-only stores it was built with and is safe
// for concurrent use.
type Checker struct {
	interactions interfaces.InteractionIndex
	clinical     interfaces.ClinicalData
}

func New(interactions interfaces.InteractionIndex, clinical interfaces.ClinicalData) *Checker {
	return &Checker{interactions: interactions, clinical: clinical}
}

// NewFromStore builds a Checker over the stores of a DataStore.
func NewFromStore(store interfaces.DataStore) *Checker {
	return New(store.Interactions(), store.Clinical())
}

// normalize resolves every non-empty entry, failing on the first unknown one,
// then deduplicates keeping first occurrences and enforces the drug count bounds.
func (c *Checker) normalize(raw []string) ([]string, error) {
	resolved := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, entry := range raw {
		if isBlank(entry) {
			continue
		}
		name, ok := c.interactions.Resolve(entry)
		if !ok {
			return nil, drugNotFound(entry)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		resolved = append(resolved, name)
	}

	switch {
	case len(resolved) < MinDrugs:
		return nil, ErrTooFewDrugs
	case len(resolved) > MaxDrugs:
		return nil, ErrTooManyDrugs
	}
	return resolved, nil
}

// CheckInteractions evaluates every unordered pair of the normalized drug list and
// aggregates them into a report, with dosage and contraindication warnings appended.
func (c *Checker) CheckInteractions(drugs []string, doses []entities.DoseEntry, ctx entities.PatientContext) (*entities.Report, error) {
	normalized, err := c.normalize(drugs)
	if err != nil {
		return nil, err
	}

	n := len(normalized)
	report := &entities.Report{
		Drugs:                normalized,
		PairResults:          make([]entities.PairResult, 0, n*(n-1)/2),
		InteractionsNotFound: []entities.DrugPair{},
		GraphData: entities.GraphData{
			Nodes: make([]entities.GraphNode, 0, n),
			Edges: []entities.GraphEdge{},
		},
	}

	for _, name := range normalized {
		report.GraphData.Nodes = append(report.GraphData.Nodes, entities.GraphNode{ID: name, Label: name})
	}

	highestWeight := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			result := c.pairResult(normalized[i], normalized[j])
			report.PairResults = append(report.PairResults, result)

			if !result.InteractionFound {
				report.UnknownPairs++
				report.InteractionsNotFound = append(report.InteractionsNotFound,
					entities.DrugPair{DrugA: result.DrugA, DrugB: result.DrugB})
				continue
			}

			weight := result.Severity.Score()
			report.KnownPairs++
			report.TotalScore += weight
			switch result.Severity {
			case entities.SeverityMild:
				report.MildCount++
			case entities.SeverityModerate:
				report.ModerateCount++
			case entities.SeveritySevere:
				report.SevereCount++
			}

			if weight > highestWeight {
				highestWeight = weight
				report.HighestRiskPair = &entities.HighestRiskPair{
					DrugA:       result.DrugA,
					DrugB:       result.DrugB,
					Severity:    result.Severity,
					Score:       weight,
					Description: result.Description,
				}
			}

			report.GraphData.Edges = append(report.GraphData.Edges, entities.GraphEdge{
				Source:      result.DrugA,
				Target:      result.DrugB,
				Severity:    result.Severity,
				Weight:      weight,
				Color:       result.Color,
				Description: truncate(result.Description, maxEdgeDescription),
			})
		}
	}

	report.TotalPairs = len(report.PairResults)
	report.OverallRisk = overallRisk(report.MildCount, report.ModerateCount, report.SevereCount)

	report.ConfidencePercentage = 100
	report.GraphDensity = 1
	if report.TotalPairs > 0 {
		ratio := float64(report.KnownPairs) / float64(report.TotalPairs)
		report.ConfidencePercentage = round2(ratio * 100)
		report.GraphDensity = round2(ratio)
	}
	report.ConfidenceLevel = confidenceLevel(report.ConfidencePercentage)

	report.RiskExplanation, report.Recommendation = narrative(report.OverallRisk, report.UnknownPairs, report.TotalPairs)
	if report.UnknownPairs > 0 {
		report.DataAdvisory = dataAdvisory
	}

	report.DosageWarnings = CheckDosage(c.interactions, c.clinical, doses)
	report.ContraindicationWarnings = CheckContraindications(c.clinical, normalized, ctx)

	return report, nil
}

// CheckPair resolves two names and returns their pair result.
// Unknown pairs come back with severity Unknown, not an error.
func (c *Checker) CheckPair(drugA, drugB string) (*entities.PairResult, error) {
	normalized, err := c.normalize([]string{drugA, drugB})
	if err != nil {
		return nil, err
	}
	result := c.pairResult(normalized[0], normalized[1])
	return &result, nil
}

// DrugInfo describes one drug of the dataset.
func (c *Checker) DrugInfo(name string) (*entities.DrugInfo, error) {
	canonical, ok := c.interactions.Resolve(name)
	if !ok {
		return nil, drugNotFound(name)
	}

	info := &entities.DrugInfo{
		Name:                      canonical,
		InDatabase:                true,
		InteractionCount:          c.interactions.InteractionCount(canonical),
		ContraindicatedConditions: []string{},
	}

	if limit, ok := c.clinical.MaxDailyDose(canonical); ok {
		info.HasDosageLimit = true
		info.DosageLimit = &limit
	}

	for condition, advice := range c.clinical.Contraindications(canonical) {
		if advice != "" {
			info.ContraindicatedConditions = append(info.ContraindicatedConditions, condition)
		}
	}
	slices.Sort(info.ContraindicatedConditions)

	return info, nil
}

// pairResult reports a pair as unknown unless the store holds an entry with a scored severity.
func (c *Checker) pairResult(drugA, drugB string) entities.PairResult {
	entry, ok := c.interactions.Lookup(drugA, drugB)
	if !ok || !entry.Severity.IsKnown() {
		return entities.PairResult{
			DrugA:       drugA,
			DrugB:       drugB,
			Severity:    entities.SeverityUnknown,
			Description: noInteractionDescription,
			Color:       entities.SeverityUnknown.Color(),
		}
	}

	score := entry.Severity.Score()
	return entities.PairResult{
		DrugA:            drugA,
		DrugB:            drugB,
		Severity:         entry.Severity,
		Score:            &score,
		Description:      entry.Description,
		Color:            entry.Severity.Color(),
		InteractionFound: true,
	}
}

// overallRisk picks the base tier from the worst pair, then escalates at most once:
// three or more mild pairs make Mild into Moderate, two or more moderate pairs make
// Moderate into Severe.
func overallRisk(mild, moderate, severe int) entities.Severity {
	switch {
	case severe > 0:
		return entities.SeveritySevere
	case moderate > 0:
		if moderate >= 2 {
			return entities.SeveritySevere
		}
		return entities.SeverityModerate
	default:
		if mild >= 3 {
			return entities.SeverityModerate
		}
		return entities.SeverityMild
	}
}

func confidenceLevel(percentage float64) string {
	switch {
	case percentage >= 80:
		return entities.ConfidenceHigh
	case percentage >= 50:
		return entities.ConfidenceMedium
	default:
		return entities.ConfidenceLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// truncate limits s to limit runes, ending with "..." when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
