package registry

import (
	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/registry/entities"
)

// Compile-time check to ensure Loader implements the Loader interface
var _ interfaces.Loader = (*Loader)(nil)

// Loader reads and normalizes the configured ANVISA CSV.
type Loader struct {
	path string
}

// NewLoader creates a loader for the CSV at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// LoadMedications reads the source end-to-end and returns the ordered
// dataset, an id lookup map and an aggregate load report.
//
// The map keeps the first record seen for each id, so with duplicate source
// ids only the first match is reachable by lookup. Records with a
// non-positive id stay in the dataset but are never mapped.
func (l *Loader) LoadMedications() ([]entities.Medication, map[int]entities.Medication, *interfaces.LoadReport, error) {
	content, err := ReadSourceFile(l.path)
	if err != nil {
		return nil, nil, nil, err
	}

	rows := ParseCSV(content)
	report := &interfaces.LoadReport{RowsSeen: len(rows)}

	medications := make([]entities.Medication, 0, len(rows))
	byID := make(map[int]entities.Medication, len(rows))

	for _, row := range rows {
		medication, ok := NormalizeMedication(row)
		if !ok {
			report.RowsDropped++
			continue
		}

		medications = append(medications, medication)
		report.RowsLoaded++

		if medication.BulletinUpdatedAt == nil {
			report.MissingBulletinDate++
		}

		if medication.ID <= 0 {
			report.InvalidIDs++
			continue
		}
		if _, exists := byID[medication.ID]; exists {
			report.DuplicateIDs++
			continue
		}
		byID[medication.ID] = medication
	}

	if report.RowsDropped > 0 || report.InvalidIDs > 0 || report.DuplicateIDs > 0 {
		logging.Info("Source file skip statistics",
			"rows_seen", report.RowsSeen,
			"rows_loaded", report.RowsLoaded,
			"rows_dropped", report.RowsDropped,
			"invalid_ids", report.InvalidIDs,
			"duplicate_ids", report.DuplicateIDs,
			"missing_bulletin_dates", report.MissingBulletinDate)
	}

	return medications, byID, report, nil
}
