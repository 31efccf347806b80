// Package importer is the occasionally-run administrative import pipeline.
// It reads the regulator's "lista A" CSV, which has a different shape than
// the live bulletin status file, and writes a snapshot into a relational
// store. It shares the tolerant CSV parsing with the live path but is not
// part of it.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/registry"
)

// Source column names of the lista A CSV. These differ from the bulletin
// status file on purpose; the two files come from different reports.
const (
	colRegistration = "Registro"
	colName         = "Nome Comercial"
	colConcentrated = "Concentracao"
	colPharmForm    = "FormaFarmaceutica"
	colHolder       = "Detentor Registro"
	colBulletinDate = "Data Atualização Bulário"
)

// ImportRecord is one row of the lista A snapshot.
type ImportRecord struct {
	RegistrationNumber string
	Name               string
	Concentration      string
	PharmaceuticalForm string
	Holder             string
	BulletinUpdatedAt  *time.Time
}

// ParseImportCSV normalizes the lista A file. Rows without a registration
// number or name are dropped, same policy as the live loader.
func ParseImportCSV(content string) []ImportRecord {
	rows := registry.ParseCSV(content)

	records := make([]ImportRecord, 0, len(rows))
	for _, row := range rows {
		if row[colRegistration] == "" || row[colName] == "" {
			continue
		}
		records = append(records, ImportRecord{
			RegistrationNumber: row[colRegistration],
			Name:               row[colName],
			Concentration:      row[colConcentrated],
			PharmaceuticalForm: row[colPharmForm],
			Holder:             row[colHolder],
			BulletinUpdatedAt:  registry.ParseDate(row[colBulletinDate]),
		})
	}

	return records
}

// NewPool creates a pgx pool for the import session.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the medications snapshot table if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS medications (
    id                  BIGSERIAL PRIMARY KEY,
    registration_number VARCHAR(20)  NOT NULL UNIQUE,
    name                VARCHAR(255) NOT NULL,
    concentration       VARCHAR(255),
    pharmaceutical_form VARCHAR(255),
    holder              VARCHAR(255),
    category            VARCHAR(32)  NOT NULL DEFAULT 'medicamento',
    status              VARCHAR(32)  NOT NULL DEFAULT 'ativo',
    bulletin_updated_at TIMESTAMPTZ,
    data_source         VARCHAR(255) NOT NULL DEFAULT 'ANVISA',
    created_at          TIMESTAMPTZ  NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_medications_status ON medications (status);
CREATE INDEX IF NOT EXISTS idx_medications_bulletin_updated_at ON medications (bulletin_updated_at);
`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create medications table: %w", err)
	}
	return nil
}

// Import replaces the snapshot table contents with records, batching the
// inserts. Returns the number of rows written.
func Import(ctx context.Context, pool *pgxpool.Pool, records []ImportRecord) (int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			logging.Warn("Rollback failed", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, "DELETE FROM medications"); err != nil {
		return 0, fmt.Errorf("clear medications table: %w", err)
	}

	const batchSize = 100
	inserted := 0

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := &pgx.Batch{}
		for _, record := range records[start:end] {
			batch.Queue(`
INSERT INTO medications
    (registration_number, name, concentration, pharmaceutical_form, holder, bulletin_updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (registration_number) DO NOTHING`,
				record.RegistrationNumber,
				record.Name,
				nullable(record.Concentration),
				nullable(record.PharmaceuticalForm),
				nullable(record.Holder),
				record.BulletinUpdatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for i, n := 0, batch.Len(); i < n; i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return inserted, fmt.Errorf("insert batch starting at row %d: %w", start, err)
			}
			inserted++
		}
		if err := results.Close(); err != nil {
			return inserted, fmt.Errorf("close batch: %w", err)
		}

		logging.Info("Import progress", "inserted", end, "total", len(records))
	}

	if err := tx.Commit(ctx); err != nil {
		return inserted, fmt.Errorf("commit import transaction: %w", err)
	}

	return inserted, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
