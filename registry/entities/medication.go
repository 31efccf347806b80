package entities

import "time"

// Default values for the current ANVISA source. The dataset today carries a
// single category and status, but both columns are open enumerations so
// future sources can vary them.
const (
	CategoryMedicamento = "medicamento"
	StatusAtivo         = "ativo"
	StatusInativo       = "inativo"
)

// Medication is one drug-registration entry normalized from the ANVISA
// bulletin status CSV.
//
// The two date fields come from source columns that are easy to transpose:
// BulletinUpdatedAt is the regulator's own last-modified timestamp for the
// registration's bulletin ("data" column), while PlatformIngestedAt is when
// this platform last absorbed the record ("dataAtualizacao" column).
type Medication struct {
	ID                 int        `json:"id"`
	RegistrationNumber string     `json:"registrationNumber"`
	Name               string     `json:"name"`
	Holder             string     `json:"holder,omitempty"`
	Cnpj               string     `json:"cnpj,omitempty"`
	ProcessNumber      string     `json:"processNumber,omitempty"`
	Expediente         string     `json:"expediente,omitempty"`
	BulletinUpdatedAt  *time.Time `json:"publicationDate"`
	PlatformIngestedAt *time.Time `json:"lastUpdate"`
	Category           string     `json:"category"`
	Status             string     `json:"status"`
}
