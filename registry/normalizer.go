package registry

import (
	"strconv"

	"github.com/pbarbosa/bulario-api/registry/entities"
)

// Source column names of the ANVISA bulletin status CSV.
//
// colBulletinDate ("data") is the regulator's bulletin update date and
// colIngestionDate ("dataAtualizacao") is the platform inclusion date.
// They are mapped to differently named struct fields on purpose; see the
// column mapping test before touching this.
const (
	colProductID     = "idProduto"
	colRegistration  = "numeroRegistro"
	colName          = "nomeProduto"
	colHolder        = "razaoSocial"
	colCnpj          = "cnpj"
	colExpediente    = "expediente"
	colProcessNumber = "numProcesso"
	colBulletinDate  = "data"
	colIngestionDate = "dataAtualizacao"
)

// NormalizeMedication maps a raw row to a typed medication record.
//
// A row without a registration number or a product name is invalid and
// reports ok=false; every other field may be absent. A non-numeric product
// id yields a record with ID 0, which is kept in the dataset but is not a
// valid lookup key. This function never errors.
func NormalizeMedication(row RawRow) (entities.Medication, bool) {
	if row[colRegistration] == "" || row[colName] == "" {
		return entities.Medication{}, false
	}

	id, _ := strconv.Atoi(row[colProductID])

	return entities.Medication{
		ID:                 id,
		RegistrationNumber: row[colRegistration],
		Name:               row[colName],
		Holder:             row[colHolder],
		Cnpj:               row[colCnpj],
		ProcessNumber:      row[colProcessNumber],
		Expediente:         row[colExpediente],
		BulletinUpdatedAt:  ParseDate(row[colBulletinDate]),
		PlatformIngestedAt: ParseDate(row[colIngestionDate]),
		Category:           entities.CategoryMedicamento,
		Status:             entities.StatusAtivo,
	}, true
}
