// Package data provides thread-safe storage for the normalized medication
// dataset. The Container holds the dataset behind atomic pointers so a
// reload swaps the whole snapshot with zero downtime; between reloads the
// data is write-once/read-many.
package data

import (
	"sync/atomic"
	"time"

	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/registry/entities"
)

// Compile-time check to ensure Container implements DataStore
var _ interfaces.DataStore = (*Container)(nil)

// Container holds the medication dataset with atomic pointers for
// zero-downtime reloads.
type Container struct {
	medications     atomic.Value // []entities.Medication
	medicationsByID atomic.Value // map[int]entities.Medication
	loadReport      atomic.Value // *interfaces.LoadReport
	lastLoaded      atomic.Value // time.Time
	reloading       atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewContainer creates a Container with an empty dataset. Every query
// against an unloaded container deterministically returns empty results.
func NewContainer() *Container {
	c := &Container{}
	c.medications.Store(make([]entities.Medication, 0))
	c.medicationsByID.Store(make(map[int]entities.Medication))
	c.loadReport.Store(&interfaces.LoadReport{})
	c.lastLoaded.Store(time.Time{})
	c.serverStartTime.Store(time.Time{})
	return c
}

// Thread-safe getters with type check

// GetMedications returns the dataset in source order.
func (c *Container) GetMedications() []entities.Medication {
	if v := c.medications.Load(); v != nil {
		if medications, ok := v.([]entities.Medication); ok {
			return medications
		}
	}

	logging.Warn("Medication list is empty or invalid")
	return []entities.Medication{}
}

// GetMedicationsByID returns the id lookup map (first match per id).
func (c *Container) GetMedicationsByID() map[int]entities.Medication {
	if v := c.medicationsByID.Load(); v != nil {
		if byID, ok := v.(map[int]entities.Medication); ok {
			return byID
		}
	}

	logging.Warn("Medication map is empty or invalid")
	return make(map[int]entities.Medication)
}

// GetLoadReport returns the report of the most recent load.
func (c *Container) GetLoadReport() *interfaces.LoadReport {
	if v := c.loadReport.Load(); v != nil {
		if report, ok := v.(*interfaces.LoadReport); ok {
			return report
		}
	}

	logging.Warn("Load report is empty or invalid")
	return &interfaces.LoadReport{}
}

// GetLastLoaded returns the timestamp of the last dataset load.
func (c *Container) GetLastLoaded() time.Time {
	if v := c.lastLoaded.Load(); v != nil {
		if lastLoaded, ok := v.(time.Time); ok {
			return lastLoaded
		}
	}

	logging.Warn("Could not get the last loaded value")
	return time.Time{}
}

// IsReloading returns true if a dataset reload is currently in progress.
func (c *Container) IsReloading() bool {
	return c.reloading.Load()
}

// SetServerStartTime sets the server start time.
func (c *Container) SetServerStartTime(startTime time.Time) {
	c.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time.
func (c *Container) GetServerStartTime() time.Time {
	if v := c.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateData atomically replaces the dataset snapshot.
func (c *Container) UpdateData(medications []entities.Medication, byID map[int]entities.Medication, report *interfaces.LoadReport) {
	if medications == nil {
		medications = make([]entities.Medication, 0)
	}
	if byID == nil {
		byID = make(map[int]entities.Medication)
	}
	if report == nil {
		report = &interfaces.LoadReport{}
	}

	c.medications.Store(medications)
	c.medicationsByID.Store(byID)
	c.loadReport.Store(report)
	c.lastLoaded.Store(time.Now())
}

// BeginReload marks the start of a dataset reload.
// Returns true if the reload can proceed, false if another is in progress.
func (c *Container) BeginReload() bool {
	return c.reloading.CompareAndSwap(false, true)
}

// EndReload marks the end of a dataset reload.
func (c *Container) EndReload() {
	c.reloading.Store(false)
}
