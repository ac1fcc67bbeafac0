package datasets

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/logging"
)

// InteractionMap is the file layout: canonical drug -> canonical drug -> entry.
type InteractionMap map[string]map[string]entities.Interaction

type rawInteraction struct {
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// LoadInteractions parses the interaction file. Any read or structural error is returned,
// since the service cannot answer anything without it.
// Severities are normalized here: legacy "Critical" becomes Severe and unrecognized values Moderate.
func LoadInteractions(path string) (InteractionMap, error) {
	interactions, _, err := loadInteractions(path)
	return interactions, err
}

func loadInteractions(path string) (InteractionMap, Fingerprint, error) {
	content, fp, err := readDataFile(path)
	if err != nil {
		return nil, fp, fmt.Errorf("failed to read interaction data %s: %w", path, err)
	}

	var raw map[string]map[string]rawInteraction
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fp, fmt.Errorf("failed to parse interaction data %s: %w", path, err)
	}
	if raw == nil {
		return nil, fp, fmt.Errorf("interaction data %s is empty", path)
	}

	result := make(InteractionMap, len(raw))
	skippedNames := 0
	unrecognized := 0
	entries := 0

	for drugA, inner := range raw {
		drugA = strings.TrimSpace(drugA)
		if drugA == "" {
			skippedNames++
			continue
		}

		target, ok := result[drugA]
		if !ok {
			target = make(map[string]entities.Interaction, len(inner))
			result[drugA] = target
		}

		for drugB, entry := range inner {
			drugB = strings.TrimSpace(drugB)
			if drugB == "" || drugB == drugA {
				skippedNames++
				continue
			}

			severity, recognized := entities.ParseSeverity(entry.Severity)
			if !recognized {
				unrecognized++
			}

			target[drugB] = entities.Interaction{
				Severity:    severity,
				Description: entry.Description,
			}
			entries++
		}
	}

	if skippedNames > 0 || unrecognized > 0 {
		logging.Info("Interaction data skip statistics",
			"file", path,
			"skipped_names", skippedNames,
			"unrecognized_severities", unrecognized,
			"entries_parsed", entries)
	}

	return result, fp, nil
}
