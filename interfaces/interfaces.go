// Package interfaces defines the contracts between the MediSync packages
// so stores, checker and transport can be tested in isolation.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/medisync-api/datasets"
	"github.com/giygas/medisync-api/entities"
)

// InteractionIndex is the read-only interaction store with its name-resolution index.
type InteractionIndex interface {
	// Resolve maps caller input to a canonical drug name
	Resolve(raw string) (string, bool)

	// Lookup returns the entry for an unordered pair of canonical names
	Lookup(drugA, drugB string) (entities.Interaction, bool)

	InteractionCount(name string) int
	DrugCount() int
	PairCount() int
	Drugs() []string
}

// ClinicalData is the read-only dosage limit and contraindication store.
type ClinicalData interface {
	MaxDailyDose(name string) (entities.DosageLimit, bool)
	Contraindications(name string) entities.Contraindications
	DosageLimitCount() int
	ContraindicationCount() int
}

// DataStore gives access to the loaded dataset and its load metadata.
// Stores are immutable after load; only the drift flag changes at runtime.
type DataStore interface {
	Interactions() InteractionIndex
	Clinical() ClinicalData

	GetLoadedAt() time.Time
	GetServerStartTime() time.Time
	DataDir() string
	Fingerprints() []datasets.Fingerprint

	DriftDetected() bool
	SetDriftDetected(drift bool)
}

// InteractionChecker runs interaction and safety checks against a DataStore.
type InteractionChecker interface {
	CheckInteractions(drugs []string, doses []entities.DoseEntry, ctx entities.PatientContext) (*entities.Report, error)
	CheckPair(drugA, drugB string) (*entities.PairResult, error)
	DrugInfo(name string) (*entities.DrugInfo, error)
}

// RequestValidator validates transport input before it reaches the checker.
type RequestValidator interface {
	ValidateDrugName(name string) error
	ValidateCheckRequest(req *entities.CheckRequest) error
}

// Scheduler manages background jobs.
type Scheduler interface {
	Start() error
	Stop()
}

// DriftSchedule reports when the dataset drift monitor runs next.
// A zero time means the monitor is not scheduled.
type DriftSchedule interface {
	NextDriftCheck() time.Time
}

// HTTPHandler defines the API endpoints.
type HTTPHandler interface {
	CheckInteractions(w http.ResponseWriter, r *http.Request)
	CheckPair(w http.ResponseWriter, r *http.Request)
	DrugInfo(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker reports service health.
type HealthChecker interface {
	// HealthCheck returns the status, the data-related details and the HTTP status to serve
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// NextDriftCheck returns when the dataset drift monitor runs next
	NextDriftCheck() time.Time
}
