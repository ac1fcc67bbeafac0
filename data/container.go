// Package data holds the dataset loaded at startup: the interaction store, the clinical store
// and the metadata the health and drift checks report on.
package data

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/giygas/medisync-api/datasets"
	"github.com/giygas/medisync-api/interfaces"
	"github.com/giygas/medisync-api/logging"
)

// Compile-time check to ensure DataContainer implements DataStore
var _ interfaces.DataStore = (*DataContainer)(nil)

// DataContainer is built once before the listener starts and shared read-only.
// The drift flag and server start time are the only mutable fields.
type DataContainer struct {
	interactions    *InteractionStore
	clinical        *ClinicalStore
	dataDir         string
	loadedAt        time.Time
	fingerprints    []datasets.Fingerprint
	drift           atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewDataContainer builds the stores from a loaded bundle. A nil bundle gives empty stores.
func NewDataContainer(bundle *datasets.Bundle, dataDir string) *DataContainer {
	if bundle == nil {
		bundle = &datasets.Bundle{}
	}

	dc := &DataContainer{
		interactions: NewInteractionStore(bundle.Interactions),
		clinical:     NewClinicalStore(bundle.DosageLimits, bundle.Contraindications),
		dataDir:      dataDir,
		loadedAt:     bundle.LoadedAt,
		fingerprints: slices.Clone(bundle.Fingerprints),
	}
	dc.serverStartTime.Store(time.Time{})

	logging.Info("Data container ready",
		"drugs", dc.interactions.DrugCount(),
		"pairs", dc.interactions.PairCount(),
		"dosage_limits", dc.clinical.DosageLimitCount(),
		"contraindications", dc.clinical.ContraindicationCount())

	return dc
}

func (dc *DataContainer) Interactions() interfaces.InteractionIndex {
	return dc.interactions
}

func (dc *DataContainer) Clinical() interfaces.ClinicalData {
	return dc.clinical
}

// GetLoadedAt returns when the dataset was read from disk
func (dc *DataContainer) GetLoadedAt() time.Time {
	return dc.loadedAt
}

func (dc *DataContainer) DataDir() string {
	return dc.dataDir
}

// Fingerprints returns the data file fingerprints taken at load time
func (dc *DataContainer) Fingerprints() []datasets.Fingerprint {
	return slices.Clone(dc.fingerprints)
}

// DriftDetected reports whether the files on disk no longer match the loaded dataset
func (dc *DataContainer) DriftDetected() bool {
	return dc.drift.Load()
}

func (dc *DataContainer) SetDriftDetected(drift bool) {
	dc.drift.Store(drift)
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	if v := dc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}
