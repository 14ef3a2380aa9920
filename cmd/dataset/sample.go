package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/phish-dataset/internal/dataset"
)

func newSampleCmd() *cobra.Command {
	var (
		input     string
		output    string
		limit     int
		noHeaders bool
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Randomly sample rows of a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			if output == "" {
				output = fmt.Sprintf("random_%d.csv", limit)
			}
			var seedPtr *int64
			if cmd.Flags().Changed("seed") {
				seedPtr = &seed
			}

			var n int
			err = writeOutput(output, func(w io.Writer) error {
				var err error
				n, err = dataset.Sample(f, w, limit, !noHeaders, seedPtr)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "File '%s' successfully created with %d rows\n", output, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input CSV file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default random_<limit>.csv)")
	cmd.Flags().IntVar(&limit, "limit", 1000, "Number of rows to sample")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Exclude the header row from the output")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducibility")
	cmd.MarkFlagRequired("input")
	return cmd
}
