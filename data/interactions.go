package data

import (
	"slices"

	"github.com/giygas/medisync-api/datasets"
	"github.com/giygas/medisync-api/entities"
	"github.com/giygas/medisync-api/interfaces"
	"github.com/giygas/medisync-api/logging"
)

var _ interfaces.InteractionIndex = (*InteractionStore)(nil)

// InteractionStore holds every interaction under both (a, b) and (b, a)
// plus the case-insensitive name index. Read-only after construction.
type InteractionStore struct {
	pairs     map[string]map[string]entities.Interaction
	index     map[string]string
	drugs     []string
	pairCount int
}

// NewInteractionStore builds the symmetric store from the interaction file.
// Drugs are processed in sorted order: when the file carries two different entries for the
// same pair, the first one wins and the conflict is logged.
// Drugs that only appear as inner keys are canonical names too.
func NewInteractionStore(raw datasets.InteractionMap) *InteractionStore {
	s := &InteractionStore{
		pairs: make(map[string]map[string]entities.Interaction, len(raw)),
		index: make(map[string]string, len(raw)),
	}

	conflicts := 0
	for _, drugA := range sortedKeys(raw) {
		s.ensure(drugA)
		inner := raw[drugA]
		for _, drugB := range sortedKeys(inner) {
			entry := inner[drugB]
			if existing, ok := s.pairs[drugA][drugB]; ok {
				if existing != entry {
					conflicts++
					logging.Warn("Conflicting interaction entries, keeping first",
						"drug_a", drugA, "drug_b", drugB,
						"kept", existing.Severity, "ignored", entry.Severity)
				}
				continue
			}
			s.ensure(drugB)
			s.pairs[drugA][drugB] = entry
			s.pairs[drugB][drugA] = entry
			s.pairCount++
		}
	}

	s.drugs = sortedKeys(s.pairs)
	for _, name := range s.drugs {
		key := NameKey(name)
		if kept, ok := s.index[key]; ok {
			logging.Warn("Drug names collide on lookup key, keeping first",
				"key", key, "kept", kept, "ignored", name)
			continue
		}
		s.index[key] = name
	}

	if conflicts > 0 {
		logging.Info("Interaction store conflict statistics", "conflicts", conflicts)
	}

	return s
}

func (s *InteractionStore) ensure(name string) {
	if _, ok := s.pairs[name]; !ok {
		s.pairs[name] = make(map[string]entities.Interaction)
	}
}

func (s *InteractionStore) Resolve(raw string) (string, bool) {
	name, ok := s.index[NameKey(raw)]
	return name, ok
}

func (s *InteractionStore) Lookup(drugA, drugB string) (entities.Interaction, bool) {
	entry, ok := s.pairs[drugA][drugB]
	return entry, ok
}

// InteractionCount returns the number of drugs name has an entry with.
func (s *InteractionStore) InteractionCount(name string) int {
	return len(s.pairs[name])
}

func (s *InteractionStore) DrugCount() int {
	return len(s.drugs)
}

// PairCount returns the number of unordered pairs stored.
func (s *InteractionStore) PairCount() int {
	return s.pairCount
}

// Drugs returns the canonical names in sorted order.
func (s *InteractionStore) Drugs() []string {
	return slices.Clone(s.drugs)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
