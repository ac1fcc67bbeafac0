package checker

import (
	"fmt"

	"github.com/giygas/medisync-api/entities"
)

const dataAdvisory = "Some drug pairs have no entry in the offline interaction database. " +
	"Missing data does not mean the combination is safe."

var riskText = map[entities.Severity]struct {
	explanation    string
	recommendation string
}{
	entities.SeverityMild: {
		explanation:    "No moderate or severe interactions were identified between the selected drugs.",
		recommendation: "Generally acceptable to combine. Monitor for minor side effects and ask a pharmacist if symptoms appear.",
	},
	entities.SeverityModerate: {
		explanation:    "Interactions were identified that may need monitoring or dose adjustment.",
		recommendation: "Use with caution. Consult a healthcare provider about monitoring or adjusting doses.",
	},
	entities.SeveritySevere: {
		explanation:    "A severe interaction, or several moderate interactions compounding each other, was identified.",
		recommendation: "Avoid this combination unless a physician directs otherwise. Seek medical advice before taking these drugs together.",
	},
}

// narrative returns the explanation and recommendation for a risk tier.
// A data-completeness caveat is appended when some pairs are unknown.
func narrative(risk entities.Severity, unknownPairs, totalPairs int) (string, string) {
	text := riskText[risk]
	explanation := text.explanation
	if unknownPairs > 0 {
		explanation += fmt.Sprintf(" Note: %d of %d drug pairs have no interaction data, so this assessment may be incomplete.",
			unknownPairs, totalPairs)
	}
	return explanation, text.recommendation
}
