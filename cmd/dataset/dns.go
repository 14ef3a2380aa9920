package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/user/phish-dataset/internal/bootstrap"
	"github.com/user/phish-dataset/internal/dataset"
	"github.com/user/phish-dataset/internal/entity"
	"go.uber.org/zap"
)

func newDNSCmd(a *app) *cobra.Command {
	var (
		in        inputFlags
		output    string
		chunkSize int
		workers   int
		useCache  bool
	)

	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Resolve A/MX records with geolocation, saving progress after every chunk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

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

			save := func(results []entity.DNSResult) error {
				return dataset.WriteFileAtomic(output, func(w io.Writer) error {
					return dataset.WriteDNSResults(w, results)
				})
			}

			batch := dataset.NewDNSBatch(lookups.Resolver, chunkSize, workers, a.log)
			results, err := batch.Run(ctx, dataset.URLs(tasks), save)
			if err != nil {
				return err
			}
			if err := save(results); err != nil {
				return err
			}
			a.log.Info("DNS results written", zap.Int("urls", len(results)), zap.String("output", output))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "dns_results.json", "Output JSON file")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 50, "URLs per chunk")
	cmd.Flags().IntVar(&workers, "workers", 4, "Chunks resolved concurrently")
	cmd.Flags().BoolVar(&useCache, "geo-cache", false, "Cache IP geolocations in Redis")
	return cmd
}
