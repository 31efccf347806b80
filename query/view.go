package query

import (
	"time"

	"github.com/pbarbosa/bulario-api/registry/entities"
)

// absentMarker is what optional string fields serialize to when the source
// had no value. The fields are always present in the response shape.
const absentMarker = "-"

// MedicationView is the external representation of one record: dates
// serialized to RFC3339 or null, optional strings defaulted.
type MedicationView struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	RegistrationNumber string  `json:"registrationNumber"`
	Holder             string  `json:"holder"`
	Cnpj               string  `json:"cnpj"`
	ProcessNumber      string  `json:"processNumber"`
	PublicationDate    *string `json:"publicationDate"`
	LastUpdate         *string `json:"lastUpdate"`
	Category           string  `json:"category"`
	Status             string  `json:"status"`
}

// ProjectMedication maps an internal record to its external representation.
func ProjectMedication(m entities.Medication) MedicationView {
	return MedicationView{
		ID:                 m.ID,
		Name:               m.Name,
		RegistrationNumber: m.RegistrationNumber,
		Holder:             orAbsent(m.Holder),
		Cnpj:               orAbsent(m.Cnpj),
		ProcessNumber:      orAbsent(m.ProcessNumber),
		PublicationDate:    formatDate(m.BulletinUpdatedAt),
		LastUpdate:         formatDate(m.PlatformIngestedAt),
		Category:           m.Category,
		Status:             m.Status,
	}
}

func orAbsent(s string) string {
	if s == "" {
		return absentMarker
	}
	return s
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
