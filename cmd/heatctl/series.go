package main

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/couchcryptid/heat-scores-dashboard/internal/domain"
	"github.com/couchcryptid/heat-scores-dashboard/internal/export"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func newSeriesCmd(opts *globalOptions) *cobra.Command {
	var (
		height int
		width  int
		noPlot bool
	)
	cmd := &cobra.Command{
		Use:       "series [sst|heat-days|sleep|math-score|english-score]",
		Short:     "plot a dataset in the terminal",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: datasetNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := export.ParseDataset(args[0])
			if err != nil {
				return err
			}
			years, err := opts.years()
			if err != nil {
				return err
			}
			svc := opts.service(cmd.ErrOrStderr())
			out := cmd.OutOrStdout()

			if ds.Official() {
				v := svc.Official(cmd.Context(), years)
				s := v.SST
				if ds == export.DatasetHeatDays {
					s = v.HeatDays
				}
				return printSeries(out, s, height, width, noPlot)
			}

			metric, _ := ds.Metric()
			v := svc.Student(cmd.Context(), domain.StudentQuery{Metric: metric, Trendline: true})
			if metric == domain.MetricSleepHours {
				if err := printSeries(out, domain.SleepSeries(v.Sleep), height, width, noPlot); err != nil {
					return err
				}
			} else {
				printScores(out, v.Scores, height, width, noPlot)
			}
			if v.Fit != nil {
				fmt.Fprintf(out, "\ntrendline: value = %.4f * temperature + %.4f (R² %.3f, n=%d)\n",
					v.Fit.Slope, v.Fit.Intercept, v.Fit.R2, v.Fit.N)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&height, "height", 12, "plot height in rows")
	cmd.Flags().IntVar(&width, "width", 72, "plot width in columns")
	cmd.Flags().BoolVar(&noPlot, "no-plot", false, "print the table only")
	return cmd
}

func datasetNames() []string {
	names := make([]string, 0, len(export.Datasets()))
	for _, d := range export.Datasets() {
		names = append(names, string(d))
	}
	return names
}

func printSeries(out io.Writer, s domain.Series, height, width int, noPlot bool) error {
	if s.Len() == 0 {
		return fmt.Errorf("no observations for %s in the selected range", s.Label)
	}

	fmt.Fprintf(out, "%s (%s)\n\n", s.Label, provenanceNote(s.Provenance))
	if !noPlot && s.Len() > 1 {
		years := s.Years()
		caption := fmt.Sprintf("%s, %d-%d", s.Label, years[0], years[len(years)-1])
		fmt.Fprintln(out, asciigraph.Plot(s.Values(),
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		))
		fmt.Fprintln(out)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tYEAR\tVALUE")
	for _, o := range s.Observations {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\n", o.Date.Format("2006-01-02"), o.Year, o.Value)
	}
	return tw.Flush()
}

// printScores plots exam scores ordered by temperature, the scatter's x axis.
func printScores(out io.Writer, rows []domain.ScoreObservation, height, width int, noPlot bool) {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b domain.ScoreObservation) int {
		switch {
		case a.Temperature < b.Temperature:
			return -1
		case a.Temperature > b.Temperature:
			return 1
		default:
			return 0
		}
	})

	label := ""
	if len(sorted) > 0 {
		label = sorted[0].Metric
	}
	fmt.Fprintf(out, "%s vs exam-day temperature (%d students, synthetic data)\n\n", label, len(sorted))

	if !noPlot && len(sorted) > 1 {
		values := make([]float64, len(sorted))
		for i, r := range sorted {
			values[i] = r.Value
		}
		caption := fmt.Sprintf("%s by temperature %.1f-%.1f °C", label, sorted[0].Temperature, sorted[len(sorted)-1].Temperature)
		fmt.Fprintln(out, asciigraph.Plot(values,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(caption),
		))
	}
}
