package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Gallery/internal/catalog"
	"Gallery/internal/config"
)

const service = "gallery"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   service,
		Short: "Paginated, searchable artwork catalog",
		Long: `Gallery serves a read-only artwork catalog over GraphQL and REST.

The catalog is read once from data/paintings.json under CATALOG_ROOT (or a
Postgres/SQLite paintings table) and falls back to 20 placeholder records
when no data is available.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newCollectCmd())

	return cmd
}

// newSource picks the catalog source named by cfg. The returned closer is
// never nil.
func newSource(cfg config.Config) (catalog.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source {
	case config.SourcePostgres:
		src, err := catalog.OpenSQLSource(catalog.DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	case config.SourceSQLite:
		src, err := catalog.OpenSQLSource(catalog.DriverSQLite, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	case config.SourceFile:
		return catalog.NewFileSource(cfg.Root), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

func storeOptions(cfg config.Config, log *zap.Logger) []catalog.StoreOption {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return []catalog.StoreOption{
		catalog.WithSeed(seed),
		catalog.WithLogger(log),
	}
}
