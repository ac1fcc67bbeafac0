// Package health reports service health from the loaded dataset.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/medisync-api/interfaces"
)

var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	dataStore     interfaces.DataStore
	checkInterval time.Duration
	schedule      interfaces.DriftSchedule
}

// NewHealthChecker creates a health checker. checkInterval is the drift monitor period.
func NewHealthChecker(dataStore interfaces.DataStore, checkInterval time.Duration) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		dataStore:     dataStore,
		checkInterval: checkInterval,
	}
}

// HealthCheck returns the status served by /health.
// An empty interaction store is unhealthy (503). Drift on disk is degraded but still served
// (200), since answers stay consistent with the loaded dataset.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	interactions := h.dataStore.Interactions()
	clinical := h.dataStore.Clinical()
	loadedAt := h.dataStore.GetLoadedAt()
	drift := h.dataStore.DriftDetected()

	switch {
	case interactions.DrugCount() == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case drift:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"drugs":             interactions.DrugCount(),
		"interaction_pairs": interactions.PairCount(),
		"dosage_limits":     clinical.DosageLimitCount(),
		"contraindications": clinical.ContraindicationCount(),
		"drift_detected":    drift,
	}

	if !loadedAt.IsZero() {
		data["loaded_at"] = loadedAt.Format(time.RFC3339)
		data["data_age_hours"] = math.Round(time.Since(loadedAt).Hours()*10) / 10
	}

	if start := h.dataStore.GetServerStartTime(); !start.IsZero() {
		data["uptime_seconds"] = math.Round(time.Since(start).Seconds())
	}

	if next := h.NextDriftCheck(); !next.IsZero() {
		data["next_drift_check"] = next.Format(time.RFC3339)
	}

	return status, data, httpStatus
}

// SetDriftSchedule makes NextDriftCheck report the scheduler's own next run.
func (h *HealthCheckerImpl) SetDriftSchedule(schedule interfaces.DriftSchedule) {
	h.schedule = schedule
}

// NextDriftCheck returns the scheduler's next drift run. Without a running schedule it
// estimates the run by counting whole intervals from load time.
func (h *HealthCheckerImpl) NextDriftCheck() time.Time {
	if h.schedule != nil {
		if next := h.schedule.NextDriftCheck(); !next.IsZero() {
			return next
		}
	}

	loadedAt := h.dataStore.GetLoadedAt()
	if h.checkInterval <= 0 || loadedAt.IsZero() {
		return time.Time{}
	}

	elapsed := time.Since(loadedAt)
	if elapsed < 0 {
		return loadedAt.Add(h.checkInterval)
	}
	runs := elapsed/h.checkInterval + 1
	return loadedAt.Add(runs * h.checkInterval)
}
