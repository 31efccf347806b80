// Command importer is the one-time administrative import: it loads the
// regulator's lista A CSV into the relational medications snapshot. It is
// not part of the live query path and is run on demand.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pbarbosa/bulario-api/importer"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/registry"
)

var (
	csvPath string
	dsn     string
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "ANVISA lista A CSV → Postgres snapshot loader",
	Long:  "Reads the regulator's lista A CSV and replaces the relational medications snapshot with its contents.",
	RunE:  runImport,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&csvPath, "csv", "data/tabela_lista_a_incluidos.csv", "Path to the lista A CSV file")
	pf.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
}

func runImport(cmd *cobra.Command, args []string) error {
	if dsn == "" {
		return fmt.Errorf("no database connection string: pass --dsn or set DATABASE_URL")
	}

	content, err := registry.ReadSourceFile(csvPath)
	if err != nil {
		return err
	}

	records := importer.ParseImportCSV(content)
	logging.Info("Parsed import file", "path", csvPath, "records", len(records))

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	pool, err := importer.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := importer.Migrate(ctx, pool); err != nil {
		return err
	}

	inserted, err := importer.Import(ctx, pool, records)
	if err != nil {
		return err
	}

	logging.Info("Import completed", "inserted", inserted)
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		logging.Error("Import failed", "error", err)
		os.Exit(1)
	}
}
