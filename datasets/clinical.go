package datasets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/logging"
)

type rawDosageLimit struct {
	MaxDailyDose entities.DoseValue `json:"max_daily_dose"`
	MaxDailyMg   entities.DoseValue `json:"max_daily_mg"`
	Unit         string             `json:"unit"`
	Route        string             `json:"route"`
}

// LoadDosageLimits reads the optional dosage table. It never fails: a missing file is logged
// at info, an unreadable or malformed one at warn, and both give an empty table.
// Entries without a positive numeric maximum are skipped.
func LoadDosageLimits(path string) map[string]entities.DosageLimit {
	limits, _ := loadDosageLimits(path)
	return limits
}

func loadDosageLimits(path string) (map[string]entities.DosageLimit, Fingerprint) {
	raw, fp, ok := loadOptional(path, "dosage limits")
	if !ok {
		return map[string]entities.DosageLimit{}, fp
	}

	limits := make(map[string]entities.DosageLimit, len(raw))
	skipped := 0

	for drug, msg := range raw {
		drug = strings.TrimSpace(drug)
		if drug == "" {
			skipped++
			continue
		}

		var entry rawDosageLimit
		if err := json.Unmarshal(msg, &entry); err != nil {
			skipped++
			continue
		}

		maxDose := entry.MaxDailyDose
		if !maxDose.Valid {
			maxDose = entry.MaxDailyMg
		}
		if !maxDose.Valid || maxDose.Value <= 0 {
			skipped++
			continue
		}

		unit := strings.TrimSpace(entry.Unit)
		if unit == "" {
			unit = "mg"
		}

		limits[drug] = entities.DosageLimit{
			MaxDailyDose: maxDose.Value,
			Unit:         unit,
			Route:        strings.TrimSpace(entry.Route),
		}
	}

	if skipped > 0 {
		logging.Info("Dosage limits skip statistics",
			"file", path,
			"skipped_entries", skipped,
			"entries_parsed", len(limits))
	}

	return limits, fp
}

// LoadContraindications reads the optional contraindication table with the same soft-failure
// policy as LoadDosageLimits. Conditions whose advice is not a string are dropped.
func LoadContraindications(path string) map[string]entities.Contraindications {
	contraindications, _ := loadContraindications(path)
	return contraindications
}

func loadContraindications(path string) (map[string]entities.Contraindications, Fingerprint) {
	raw, fp, ok := loadOptional(path, "contraindications")
	if !ok {
		return map[string]entities.Contraindications{}, fp
	}

	result := make(map[string]entities.Contraindications, len(raw))
	skipped := 0

	for drug, msg := range raw {
		drug = strings.TrimSpace(drug)
		if drug == "" {
			skipped++
			continue
		}

		var conditions map[string]any
		if err := json.Unmarshal(msg, &conditions); err != nil {
			skipped++
			continue
		}

		entry := make(entities.Contraindications, len(conditions))
		for condition, advice := range conditions {
			text, ok := advice.(string)
			condition = strings.TrimSpace(condition)
			if !ok || condition == "" {
				skipped++
				continue
			}
			entry[condition] = text
		}
		result[drug] = entry
	}

	if skipped > 0 {
		logging.Info("Contraindications skip statistics",
			"file", path,
			"skipped_entries", skipped,
			"drugs_parsed", len(result))
	}

	return result, fp
}

// loadOptional reads a drug-keyed JSON object, reporting false when the table must be empty.
// The fingerprint describes the bytes read, or the missing file.
func loadOptional(path, label string) (map[string]json.RawMessage, Fingerprint, bool) {
	content, fp, err := readDataFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Info(fmt.Sprintf("No %s file, checks disabled", label), "file", path)
		return nil, fp, false
	}
	if err != nil {
		logging.Warn(fmt.Sprintf("Could not read %s file", label), "file", path, "error", err)
		return nil, fp, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		logging.Warn(fmt.Sprintf("Could not parse %s file", label), "file", path, "error", err)
		return nil, fp, false
	}
	return raw, fp, true
}
