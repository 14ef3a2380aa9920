package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/user/phish-dataset/internal/dataset"
	"go.uber.org/zap"
)

func newFeaturesCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "Extract lexical URL features",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := in.read()
			if err != nil {
				return err
			}
			rows := dataset.ExtractFeatures(tasks)

			var write func(io.Writer) error
			switch format {
			case "json":
				write = func(w io.Writer) error { return dataset.WriteFeaturesJSON(w, rows) }
			case "csv":
				write = func(w io.Writer) error { return dataset.WriteFeaturesCSV(w, rows) }
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err := writeOutput(output, write); err != nil {
				return err
			}
			a.log.Info("Features written", zap.Int("urls", len(rows)), zap.String("output", output))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or csv")
	return cmd
}
