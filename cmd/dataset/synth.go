package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/user/phish-dataset/internal/bootstrap"
	"github.com/user/phish-dataset/internal/dataset"
	"github.com/user/phish-dataset/internal/usecase"
	"go.uber.org/zap"
)

func newSynthCmd(a *app) *cobra.Command {
	var (
		in        inputFlags
		output    string
		batchSize int
		model     string
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate typo-squatted URL variants with a local language model",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := in.read()
			if err != nil {
				return err
			}
			if model != "" {
				a.cfg.OllamaModel = model
			}

			out, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			defer out.Close()

			synth := usecase.NewSynthesizer(bootstrap.NewGenerator(a.cfg, a.log), a.log.Named("synth"))
			report, err := synth.Synthesize(cmd.Context(), dataset.URLs(tasks), batchSize, out)
			if err != nil {
				return err
			}

			a.log.Info("Processing complete",
				zap.String("output", output),
				zap.Int("batches", report.Batches),
				zap.Int("failed_batches", report.FailedBatches),
				zap.Int("variants", len(report.Variants)),
			)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "output.txt", "File the raw model output is appended to")
	cmd.Flags().IntVar(&batchSize, "batch-size", 1, "URLs sent per model call")
	cmd.Flags().StringVar(&model, "model", "", "Override OLLAMA_MODEL")
	return cmd
}
