package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/user/phish-dataset/internal/dataset"
)

func newMergeCmd() *cobra.Command {
	var featuresPath, dnsPath, output string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Join a features CSV with a DNS summary CSV on url",
		RunE: func(cmd *cobra.Command, args []string) error {
			ff, err := os.Open(featuresPath)
			if err != nil {
				return err
			}
			defer ff.Close()

			df, err := os.Open(dnsPath)
			if err != nil {
				return err
			}
			defer df.Close()

			var n int
			err = writeOutput(output, func(w io.Writer) error {
				var err error
				n, err = dataset.Merge(ff, df, w)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "merged %d rows\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&featuresPath, "features", "", "Features CSV (features --format csv)")
	cmd.Flags().StringVar(&dnsPath, "dns", "", "DNS summary CSV (summarize)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output CSV file")
	cmd.MarkFlagRequired("features")
	cmd.MarkFlagRequired("dns")
	return cmd
}
