package checker

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/interfaces"
)

// CheckDosage flags dose entries above the stored daily maximum.
// Entry names go through the interaction index and fall back to the trimmed input,
// so a drug outside the interaction dataset can still match a limit. Entries with a
// blank name, no numeric dose or no limit are skipped.
func CheckDosage(index interfaces.InteractionIndex, clinical interfaces.ClinicalData, doses []entities.DoseEntry) []entities.DosageWarning {
	warnings := []entities.DosageWarning{}
	if clinical == nil || clinical.DosageLimitCount() == 0 {
		return warnings
	}

	for _, entry := range doses {
		name := strings.TrimSpace(entry.Drug)
		if name == "" || !entry.DailyDose.Valid {
			continue
		}

		drug := name
		if index != nil {
			if canonical, ok := index.Resolve(name); ok {
				drug = canonical
			}
		}

		limit, ok := clinical.MaxDailyDose(drug)
		if !ok {
			continue
		}

		dose := entry.DailyDose.Value
		if dose <= limit.MaxDailyDose {
			continue
		}

		warnings = append(warnings, entities.DosageWarning{
			Drug:         drug,
			DailyDose:    dose,
			MaxDailyDose: limit.MaxDailyDose,
			Unit:         limit.Unit,
			Message: fmt.Sprintf("Daily dose %s %s exceeds maximum %s %s for %s.",
				formatDose(dose), limit.Unit, formatDose(limit.MaxDailyDose), limit.Unit, drug),
		})
	}
	return warnings
}

// CheckContraindications flags stored conditions of each drug that are active in the
// patient context. Conditions are visited in name order; empty advice is ignored.
func CheckContraindications(clinical interfaces.ClinicalData, drugs []string, ctx entities.PatientContext) []entities.ContraindicationWarning {
	warnings := []entities.ContraindicationWarning{}
	if clinical == nil || clinical.ContraindicationCount() == 0 || len(ctx) == 0 {
		return warnings
	}

	active := ctx.ActiveConditions()
	if len(active) == 0 {
		return warnings
	}

	for _, drug := range drugs {
		table := clinical.Contraindications(drug)
		conditions := make([]string, 0, len(table))
		for condition := range table {
			conditions = append(conditions, condition)
		}
		slices.Sort(conditions)

		for _, condition := range conditions {
			advice := table[condition]
			if advice == "" || !active[strings.ToLower(condition)] {
				continue
			}
			warnings = append(warnings, entities.ContraindicationWarning{
				Drug:      drug,
				Condition: condition,
				Advice:    advice,
				Message:   fmt.Sprintf("%s: %s - %s.", drug, condition, strings.TrimRight(advice, ".")),
			})
		}
	}
	return warnings
}

func formatDose(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
