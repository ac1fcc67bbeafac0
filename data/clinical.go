package data

import (
	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/interfaces"
)

var _ interfaces.ClinicalData = (*ClinicalStore)(nil)

// ClinicalStore holds dosage limits and contraindications. Either table may be empty.
type ClinicalStore struct {
	limits            map[string]entities.DosageLimit
	limitKeys         map[string]string
	contraindications map[string]entities.Contraindications
	contraKeys        map[string]string
}

func NewClinicalStore(limits map[string]entities.DosageLimit, contraindications map[string]entities.Contraindications) *ClinicalStore {
	if limits == nil {
		limits = map[string]entities.DosageLimit{}
	}
	if contraindications == nil {
		contraindications = map[string]entities.Contraindications{}
	}
	return &ClinicalStore{
		limits:            limits,
		limitKeys:         foldIndex(limits),
		contraindications: contraindications,
		contraKeys:        foldIndex(contraindications),
	}
}

// foldIndex maps lookup keys to table keys; the smallest name wins on collision.
func foldIndex[V any](m map[string]V) map[string]string {
	index := make(map[string]string, len(m))
	for _, name := range sortedKeys(m) {
		key := NameKey(name)
		if _, ok := index[key]; !ok {
			index[key] = name
		}
	}
	return index
}

// MaxDailyDose returns the limit for name, trying the exact key before the folded one.
func (s *ClinicalStore) MaxDailyDose(name string) (entities.DosageLimit, bool) {
	if limit, ok := s.limits[name]; ok {
		return limit, true
	}
	if key, ok := s.limitKeys[NameKey(name)]; ok {
		return s.limits[key], true
	}
	return entities.DosageLimit{}, false
}

// Contraindications returns the condition -> advice table for name, possibly empty.
func (s *ClinicalStore) Contraindications(name string) entities.Contraindications {
	if c, ok := s.contraindications[name]; ok {
		return c
	}
	if key, ok := s.contraKeys[NameKey(name)]; ok {
		return s.contraindications[key]
	}
	return entities.Contraindications{}
}

func (s *ClinicalStore) DosageLimitCount() int {
	return len(s.limits)
}

func (s *ClinicalStore) ContraindicationCount() int {
	return len(s.contraindications)
}
