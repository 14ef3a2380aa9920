package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/user/phish-dataset/internal/adapter/postgres"
	"github.com/user/phish-dataset/internal/bootstrap"
	"github.com/user/phish-dataset/internal/dataset"
	"github.com/user/phish-dataset/internal/usecase"
	"github.com/user/phish-dataset/pkg/config"
	"go.uber.org/zap"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		in       inputFlags
		output   string
		format   string
		workers  int
		useCache bool
		store    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Enrich URLs with features, DNS and WHOIS into dataset rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q", format)
			}

			tasks, err := in.read()
			if err != nil {
				return err
			}

			cache, closeCache, err := a.geoCache(ctx, useCache)
			if err != nil {
				return err
			}
			defer closeCache()

			lookups, err := bootstrap.NewLookups(a.cfg, cache, a.log)
			if err != nil {
				return err
			}

			enricher := usecase.NewEnricher(lookups.Resolver, lookups.Whois, nil, nil, nil,
				config.Seconds(a.cfg.EnrichTimeout), a.log.Named("enricher"))

			rows, err := dataset.BuildRows(ctx, enricher, tasks, workers, a.log)
			if err != nil {
				return err
			}

			if store {
				pool, err := bootstrap.NewPostgres(ctx, a.cfg)
				if err != nil {
					return err
				}
				defer pool.Close()

				repo := postgres.NewDatasetRowRepo(pool)
				for _, row := range rows {
					if err := repo.Save(ctx, row); err != nil {
						return fmt.Errorf("store %s: %w", row.URL, err)
					}
				}
				a.log.Info("Rows stored in PostgreSQL", zap.Int("rows", len(rows)))
			}

			return writeOutput(output, func(w io.Writer) error {
				if format == "csv" {
					return dataset.WriteRowsCSV(w, rows)
				}
				return dataset.WriteRowsJSON(w, rows)
			})
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "processed_data.json", "Output file")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or csv")
	cmd.Flags().IntVar(&workers, "workers", 6, "URLs enriched concurrently")
	cmd.Flags().BoolVar(&useCache, "geo-cache", false, "Cache IP geolocations in Redis")
	cmd.Flags().BoolVar(&store, "store", false, "Also save rows to PostgreSQL")
	return cmd
}
