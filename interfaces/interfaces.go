// Package interfaces defines core abstractions for the bulario API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"github.com/pbarbosa/bulario-api/registry/entities"
)

// LoadReport summarizes one pass over the source file. Malformed rows are
// dropped silently at row level; the aggregate counters here are the only
// trace they leave.
type LoadReport struct {
	RowsSeen            int
	RowsLoaded          int
	RowsDropped         int
	InvalidIDs          int // rows kept with a non-positive or non-numeric product id
	DuplicateIDs        int // rows whose id was already mapped; first match stays reachable
	MissingBulletinDate int
}

// DataQualityReport lists dataset-level issues found after a load.
type DataQualityReport struct {
	DuplicateIDs               []int
	RecordsWithoutHolder       int
	RecordsWithoutBulletinDate int
	RecordsWithInvalidID       int
}

// DataStore is the process-wide snapshot of the normalized dataset.
// It provides thread-safe reads and an atomic full replacement so the
// dataset can be reloaded without downtime.
type DataStore interface {
	GetMedications() []entities.Medication
	GetMedicationsByID() map[int]entities.Medication
	GetLastLoaded() time.Time
	GetLoadReport() *LoadReport
	IsReloading() bool
	GetServerStartTime() time.Time
	SetServerStartTime(startTime time.Time)

	UpdateData(medications []entities.Medication, byID map[int]entities.Medication, report *LoadReport)
	BeginReload() bool
	EndReload()
}

// Loader reads the configured source end-to-end and produces the normalized
// dataset. An unreadable source is an error for the caller to log; it must
// never take the process down.
type Loader interface {
	LoadMedications() ([]entities.Medication, map[int]entities.Medication, *LoadReport, error)
}

// Scheduler manages the initial dataset load, scheduled reloads and
// staleness monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// DataValidator validates records and user input, and reports data quality.
type DataValidator interface {
	ValidateMedication(m *entities.Medication) error
	ValidateInput(input string) error
	ReportDataQuality(medications []entities.Medication) *DataQualityReport
}
