package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	redis_adapter "github.com/user/phish-dataset/internal/adapter/redis"
	"github.com/user/phish-dataset/internal/bootstrap"
	"github.com/user/phish-dataset/internal/dataset"
	"github.com/user/phish-dataset/internal/entity"
	"github.com/user/phish-dataset/internal/repository"
	"github.com/user/phish-dataset/pkg/config"
	"github.com/user/phish-dataset/pkg/logger"
	"github.com/user/phish-dataset/pkg/metrics"
	"go.uber.org/zap"
)

// app carries what every subcommand needs after the root pre-run.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dataset",
		Short:         "Build phishing URL datasets from lexical, DNS and WHOIS features.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = a.logLevel
			}
			log, err := logger.New(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			metrics.Init()
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newFeaturesCmd(a),
		newDNSCmd(a),
		newSummarizeCmd(),
		newMergeCmd(),
		newBuildCmd(a),
		newSampleCmd(),
		newSynthCmd(a),
	)
	return root
}

// inputFlags are the CSV selection flags shared by commands that read URLs.
type inputFlags struct {
	input string
	opts  dataset.ReadOptions
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input CSV file with a header row")
	cmd.Flags().StringVar(&f.opts.URLColumn, "column", "URL", "Column holding the URLs")
	cmd.Flags().StringVar(&f.opts.LabelColumn, "label-column", "", "Optional column holding the class label")
	cmd.Flags().IntVar(&f.opts.Limit, "limit", 0, "Maximum number of URLs to read (0 reads all)")
	cmd.Flags().BoolVar(&f.opts.Random, "random", false, "Pick --limit URLs at random instead of the first ones")
	cmd.Flags().Int64Var(&f.opts.Seed, "seed", 42, "Seed for --random")
	cmd.MarkFlagRequired("input")
}

func (f *inputFlags) read() ([]entity.EnrichTask, error) {
	file, err := os.Open(f.input)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return dataset.ReadTasks(file, f.opts)
}

// writeOutput writes to path atomically, or to stdout when path is empty or "-".
func writeOutput(path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(os.Stdout)
	}
	return dataset.WriteFileAtomic(path, fn)
}

// geoCache connects to Redis for the geolocation cache when enabled. The returned
// close func is never nil.
func (a *app) geoCache(ctx context.Context, enabled bool) (repository.GeoCacheRepository, func(), error) {
	if !enabled {
		return nil, func() {}, nil
	}
	rdb, err := bootstrap.NewRedis(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	return redis_adapter.NewGeoCache(rdb), func() { rdb.Close() }, nil
}
