package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/semrecipe/units"
)

func unitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the known units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSYSTEM\tDIMENSION\tBASE\tSYNONYMS")
			for _, u := range units.All() {
				base, factor := u.Base()
				baseText := "-"
				if !u.IsBase() {
					baseText = fmt.Sprintf("%s %s", units.FormatQuantity(factor), base.Name())
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					u.Name(), u.System(), u.Dimension(), baseText, strings.Join(u.Synonyms(), ", "))
			}
			return w.Flush()
		},
	}
}
