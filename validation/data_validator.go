// Package validation provides record and input validation for the bulario API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pbarbosa/bulario-api/interfaces"
	"github.com/pbarbosa/bulario-api/registry/entities"
)

// Pre-compiled patterns, compiled once at package initialization.
var (
	// Input validation: alphanumeric + Portuguese accents + safe punctuation
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+%'/,áâãàéêíóôõúüç ÁÂÃÀÉÊÍÓÔÕÚÜÇ]+$`)

	// Dangerous substrings; strings.Contains beats a regex for these.
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		"union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(",
		"`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
	}
)

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateMedication checks if a medication record is well formed.
func (v *DataValidatorImpl) ValidateMedication(m *entities.Medication) error {
	if m == nil {
		return fmt.Errorf("medication is nil")
	}

	if strings.TrimSpace(m.RegistrationNumber) == "" {
		return fmt.Errorf("empty registration number for id %d", m.ID)
	}

	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("empty name for registration %s", m.RegistrationNumber)
	}

	if len(m.Name) > 255 {
		return fmt.Errorf("name too long for registration %s: %d characters", m.RegistrationNumber, len(m.Name))
	}

	if len(m.Holder) > 255 {
		return fmt.Errorf("holder too long for registration %s: %d characters", m.RegistrationNumber, len(m.Holder))
	}

	if m.ID < 0 {
		return fmt.Errorf("negative product id: %d", m.ID)
	}

	return nil
}

// ValidateInput validates user-supplied search strings before they reach
// the query engine.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if input == "" {
		return nil
	}

	if len(input) > 200 {
		return fmt.Errorf("input too long: %d characters", len(input))
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains disallowed sequence")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains disallowed characters")
	}

	return nil
}

// ReportDataQuality scans a freshly loaded dataset for issues worth logging.
// Duplicate product ids are a known condition of the source: the dataset
// keeps every copy but only the first is reachable by id lookup.
func (v *DataValidatorImpl) ReportDataQuality(medications []entities.Medication) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateIDs: []int{},
	}

	seen := make(map[int]bool, len(medications))
	for _, m := range medications {
		if m.ID <= 0 {
			report.RecordsWithInvalidID++
		} else if seen[m.ID] {
			report.DuplicateIDs = append(report.DuplicateIDs, m.ID)
		} else {
			seen[m.ID] = true
		}

		if m.Holder == "" {
			report.RecordsWithoutHolder++
		}
		if m.BulletinUpdatedAt == nil {
			report.RecordsWithoutBulletinDate++
		}
	}

	return report
}
