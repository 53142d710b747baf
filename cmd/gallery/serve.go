package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Gallery/internal/catalog"
	"Gallery/internal/config"
	"Gallery/pkg/kit"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP server",
		Example: `  # GraphQL on :4000/graphql, REST on :4000/paintings
  gallery serve

  # Custom port, data from SQLite
  CATALOG_SOURCE=sqlite SQLITE_PATH=./gallery.db gallery serve --port 8082`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			log, err := kit.NewLogger(service, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			src, closeSource, err := newSource(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeSource(); err != nil {
					log.Warn("close catalog source", zap.Error(err))
				}
			}()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := catalog.NewMetrics(reg)

			store := catalog.NewStore(src, append(storeOptions(cfg, log), catalog.WithMetrics(metrics))...)
			s := &catalog.Server{
				Service: catalog.NewService(store, metrics),
				Log:     log,
			}

			h := catalog.NewHandler(s, catalog.HTTPDeps{
				Log:             log,
				Service:         service,
				Registry:        reg,
				MetricsEnabled:  cfg.MetricsEnabled,
				MetricsToken:    cfg.MetricsToken,
				CORSOrigins:     cfg.CORSOrigins,
				RateLimitPerMin: cfg.RateLimitPerMin,
				TrustProxy:      cfg.TrustProxy,
			})

			// Warm the cache before accepting traffic.
			store.Collection(cmd.Context())

			return kit.RunHTTPServer(cmd.Context(), ":"+cfg.Port, h, log)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}
