package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/phish-dataset/internal/dataset"
)

func newSummarizeCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Convert DNS results JSON into a CSV summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			results, err := dataset.ReadDNSResults(f)
			if err != nil {
				return err
			}
			summaries := dataset.Summarize(results)
			return writeOutput(output, func(w io.Writer) error {
				return dataset.WriteSummariesCSV(w, summaries)
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "DNS results JSON written by the dns command")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output CSV file")
	cmd.MarkFlagRequired("input")
	return cmd
}
