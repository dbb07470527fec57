package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCorrelateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "correlate",
		Short: "report the SST and heat-wave days correlation for the year range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			years, err := opts.years()
			if err != nil {
				return err
			}
			v := opts.service(cmd.ErrOrStderr()).Official(cmd.Context(), years)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s (%s) vs %s (%s), %d-%d\n",
				v.SST.Label, provenanceNote(v.SST.Provenance),
				v.HeatDays.Label, provenanceNote(v.HeatDays.Provenance),
				years.Start, years.End)

			c := v.Correlation
			if !c.Sufficient {
				fmt.Fprintln(out, c.String())
				return nil
			}
			fmt.Fprintf(out, "Pearson r = %s (%s, n=%d)\n", c.String(), c.Strength, c.SampleSize)
			return nil
		},
	}
}
