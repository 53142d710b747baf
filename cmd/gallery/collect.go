package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Gallery/internal/catalog"
	"Gallery/internal/config"
	"Gallery/internal/met"
	"Gallery/pkg/kit"
)

func newCollectCmd() *cobra.Command {
	var (
		baseURL    string
		query      string
		highlights bool
		limit      int
		delay      time.Duration
		format     string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Build the data file from the Met collection API",
		Long: `Searches the Metropolitan Museum of Art collection API, fetches each hit
and keeps the objects that have a title, artist, date, medium and image.
The result is written where "serve" reads it: data/paintings.json under
CATALOG_ROOT, unless -o says otherwise.`,
		Example: `  gallery collect --limit 50
  gallery collect --query "still life" --format parquet -o data/paintings.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := kit.NewLogger(service, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			c := &met.Collector{
				Client: met.New(baseURL),
				Log:    log,
				Limit:  limit,
				Delay:  delay,
			}
			coll, err := c.Collect(cmd.Context(), met.SearchQuery{
				Q:          query,
				HasImages:  true,
				Highlights: highlights,
			})
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(cfg.Root, catalog.DefaultDataPath)
			}
			if err := writeCollectionFile(output, format, coll); err != nil {
				return err
			}
			log.Info("collection written", zap.String("path", output), zap.Int("records", len(coll)))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", met.DefaultBaseURL, "Met collection API base URL")
	cmd.Flags().StringVarP(&query, "query", "q", "painting", "Search term")
	cmd.Flags().BoolVar(&highlights, "highlights", true, "Only search highlighted objects")
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "Maximum objects to fetch (0 for all)")
	cmd.Flags().DurationVar(&delay, "delay", 20*time.Millisecond, "Pause between object requests")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default data/paintings.json under CATALOG_ROOT)")

	return cmd
}

var errNothingCollected = errors.New("no objects had every required field")

// writeCollectionFile refuses an empty collection; serving it would hide the
// synthetic fallback.
func writeCollectionFile(path, format string, coll catalog.Collection) error {
	if len(coll) == 0 {
		return errNothingCollected
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeCollection(f, format, coll); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
