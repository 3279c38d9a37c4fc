package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridian-research/memogen/internal/model"
)

var situationsCmd = &cobra.Command{
	Use:   "situations",
	Short: "List supported situation types and their memo outlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := initRegistry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tLABEL\tVALUATION\tSECTIONS")
		_, _ = fmt.Fprintln(w, "--\t-----\t---------\t--------")
		for _, st := range model.AllSituations() {
			o, err := registry.For(st)
			if err != nil {
				return err
			}
			valuation := "-"
			if st.SupportsValuation() {
				valuation = "peer multiples"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				st, st.Label(), valuation, strings.Join(o.Titles(), "; "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(situationsCmd)
}
