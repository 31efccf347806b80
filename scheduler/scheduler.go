// Package scheduler coordinates dataset loads for the bulario API: the
// initial load at startup, a daily reload (the source file can change
// between deployments) and staleness monitoring.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/metrics"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles dataset reloads and health monitoring using dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	loader    interfaces.Loader
	validator interfaces.DataValidator
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, loader interfaces.Loader, validator interfaces.DataValidator) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		loader:    loader,
		validator: validator,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial load and schedules the daily reload.
//
// An unreadable source at startup is logged and the service keeps running
// with an empty dataset; every query then returns empty results instead of
// the process failing.
func (s *Scheduler) Start() error {
	if err := s.Reload(); err != nil {
		logging.Error("Initial dataset load failed, serving empty dataset", "error", err)
	}

	_, err := s.scheduler.Every(1).Day().At("06:00").Do(func() {
		if err := s.Reload(); err != nil {
			logging.Error("Failed to reload dataset", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dataset reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Reload loads the source file and atomically swaps the dataset snapshot.
// Concurrent calls are collapsed: only one reload runs at a time.
func (s *Scheduler) Reload() error {
	if !s.dataStore.BeginReload() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndReload()

	start := time.Now()

	medications, byID, report, err := s.loader.LoadMedications()
	if err != nil {
		// Resolve to an empty dataset rather than failing the process
		s.dataStore.UpdateData(nil, nil, &interfaces.LoadReport{})
		metrics.DatasetRecords.Set(0)
		return fmt.Errorf("failed to load medications: %w", err)
	}

	quality := s.validator.ReportDataQuality(medications)
	if len(quality.DuplicateIDs) > 0 {
		logging.Warn("Duplicate product ids detected; only the first occurrence is reachable by lookup",
			"total", len(quality.DuplicateIDs),
			"id_list", quality.DuplicateIDs,
		)
	}
	if quality.RecordsWithInvalidID > 0 {
		logging.Warn("Records with invalid product id",
			"count", quality.RecordsWithInvalidID,
		)
	}

	s.dataStore.UpdateData(medications, byID, report)

	metrics.DatasetRecords.Set(float64(len(medications)))
	metrics.DatasetRowsDropped.Set(float64(report.RowsDropped))
	metrics.DatasetReloads.Inc()

	elapsed := time.Since(start)
	logging.Info("Dataset load completed",
		"duration", elapsed.String(),
		"records", len(medications),
		"rows_dropped", report.RowsDropped)

	return nil
}

// CalculateNextUpdate returns the next scheduled reload time.
func CalculateNextUpdate() time.Time {
	now := time.Now()

	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if now.Before(sixAM) {
		return sixAM
	}

	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 6, 0, 0, 0, tomorrow.Location())
}

// startHealthMonitoring warns when the dataset has not been reloaded for
// more than a day past schedule.
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			lastLoaded := s.dataStore.GetLastLoaded()
			if time.Since(lastLoaded) > 25*time.Hour {
				logging.Warn("Dataset hasn't been reloaded in over 25 hours")
			}
		}
	}()
}
