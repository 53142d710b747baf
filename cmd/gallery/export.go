package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"Gallery/internal/catalog"
	"Gallery/internal/config"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection the server would serve",
		Long: `Loads the catalog exactly as "serve" would, including the synthetic
fallback, and writes it as JSON, YAML or Parquet. The output can be dropped
into data/ and read back by the file source.`,
		Example: `  gallery export --format yaml
  gallery export --format parquet -o data/paintings.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			src, closeSource, err := newSource(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeSource() }()

			store := catalog.NewStore(src, storeOptions(cfg, zap.NewNop())...)
			coll := store.Collection(cmd.Context())

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := writeCollection(w, format, coll); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d records from %s\n", len(coll), store.Origin())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func writeCollection(w io.Writer, format string, coll catalog.Collection) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(coll)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(coll); err != nil {
			return err
		}
		return enc.Close()
	case "parquet":
		return catalog.WriteParquet(w, coll)
	default:
		return fmt.Errorf("unknown format %q: want json, yaml or parquet", format)
	}
}
