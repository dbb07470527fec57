package main

import (
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		format  string
		outPath string
	)
	cmd := &cobra.Command{
		Use:       "export [sst|heat-days|sleep|math-score|english-score]",
		Short:     "write a dataset as csv, json, or yaml",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: datasetNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := export.ParseDataset(args[0])
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			years, err := opts.years()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer file.Close()
				out = file
			}

			if err := writeDataset(cmd, opts, out, ds, f, years); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv, json, or yaml")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func writeDataset(cmd *cobra.Command, opts *globalOptions, out io.Writer, ds export.Dataset, f export.Format, years domain.YearRange) error {
	svc := opts.service(cmd.ErrOrStderr())
	ctx := cmd.Context()

	if f == export.FormatCSV {
		file, err := svc.Dataset(ctx, ds, years)
		if err != nil {
			return err
		}
		_, err = out.Write(file.Data)
		return err
	}

	var payload any
	switch {
	case ds == export.DatasetSST:
		payload = svc.Official(ctx, years).SST
	case ds == export.DatasetHeatDays:
		payload = svc.Official(ctx, years).HeatDays
	default:
		metric, _ := ds.Metric()
		v := svc.Student(ctx, domain.StudentQuery{Metric: metric})
		if metric == domain.MetricSleepHours {
			payload = v.Sleep
		} else {
			payload = v.Scores
		}
	}
	return export.Encode(out, f, payload)
}
