// Package scheduler runs background jobs with gocron: the dataset drift monitor and
// maintenance tasks registered by other packages.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/medisync-api/datasets"
	"github.com/giygas/medisync-api/interfaces"
	"github.com/giygas/medisync-api/logging"
	"github.com/giygas/medisync-api/metrics"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var (
	_ interfaces.Scheduler     = (*Scheduler)(nil)
	_ interfaces.DriftSchedule = (*Scheduler)(nil)
)

type maintenanceJob struct {
	name  string
	every time.Duration
	fn    func()
}

// Scheduler watches the data directory for changes to the loaded files.
// The dataset is never reloaded at runtime: drift is reported through /health,
// the log and the dataset_drift_detected gauge until the process is restarted.
type Scheduler struct {
	dataStore     interfaces.DataStore
	checkInterval time.Duration
	jobs          []maintenanceJob
	scheduler     *gocron.Scheduler
	driftJob      *gocron.Job
}

// NewScheduler creates a scheduler checking for drift every checkInterval
func NewScheduler(dataStore interfaces.DataStore, checkInterval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()

	return &Scheduler{
		dataStore:     dataStore,
		checkInterval: checkInterval,
		scheduler:     s,
	}
}

// AddMaintenanceJob registers fn to run every interval once the scheduler starts.
func (s *Scheduler) AddMaintenanceJob(name string, every time.Duration, fn func()) {
	s.jobs = append(s.jobs, maintenanceJob{name: name, every: every, fn: fn})
}

// Start schedules every job and starts the scheduler asynchronously
func (s *Scheduler) Start() error {
	driftJob, err := s.scheduler.Every(s.checkInterval).Tag("dataset-drift").WaitForSchedule().Do(func() {
		if _, err := s.CheckDrift(); err != nil {
			logging.Warn("Dataset drift check failed", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule drift monitor", "error", err)
		return fmt.Errorf("failed to schedule drift monitor: %w", err)
	}
	s.driftJob = driftJob

	for _, job := range s.jobs {
		if _, err := s.scheduler.Every(job.every).Tag(job.name).WaitForSchedule().Do(job.fn); err != nil {
			logging.Error("Failed to schedule job", "job", job.name, "error", err)
			return fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started",
		"drift_interval", s.checkInterval.String(),
		"maintenance_jobs", len(s.jobs))

	return nil
}

// NextDriftCheck returns the next run of the drift monitor, or zero before Start.
func (s *Scheduler) NextDriftCheck() time.Time {
	if s.driftJob == nil {
		return time.Time{}
	}
	return s.driftJob.NextRun()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// CheckDrift compares the data files on disk with the fingerprints taken at load time
// and records the result on the data store.
func (s *Scheduler) CheckDrift() (bool, error) {
	loaded := s.dataStore.Fingerprints()
	if len(loaded) == 0 {
		return false, fmt.Errorf("no load-time fingerprints to compare against")
	}

	current, err := datasets.FingerprintAll(s.dataStore.DataDir())
	if err != nil {
		return false, fmt.Errorf("failed to fingerprint data files: %w", err)
	}

	var changed []string
	for i, fp := range current {
		if i >= len(loaded) || !fp.Equal(loaded[i]) {
			changed = append(changed, fp.Path)
		}
	}
	drift := len(changed) > 0

	previous := s.dataStore.DriftDetected()
	s.dataStore.SetDriftDetected(drift)
	metrics.SetDrift(drift)

	switch {
	case drift && !previous:
		logging.Warn("Data files changed since load, restart to apply", "files", changed)
	case !drift && previous:
		logging.Info("Data files match the loaded dataset again")
	}

	return drift, nil
}
