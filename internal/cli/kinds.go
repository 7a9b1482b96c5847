package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelajfisher/conference-bridge/internal/types"
)

func init() {
	rootCmd.AddCommand(kindsCmd)
	kindsCmd.Flags().String("lookup", "", "classify an action or short name instead of listing every kind")
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the recognized conference events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		lookup, _ := cmd.Flags().GetString("lookup")
		if lookup != "" {
			if kind, ok := types.KindFromAction(lookup); ok {
				fmt.Fprintf(out, "%s (action)\n", kind)
				return nil
			}
			if kind, ok := types.KindFromShortName(lookup); ok {
				fmt.Fprintf(out, "%s (short name)\n", kind)
				return nil
			}
			return fmt.Errorf("unrecognized event %q", lookup)
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SHORT NAME\tACTION")
		for _, kind := range types.AllKinds() {
			fmt.Fprintf(w, "%s\t%s\n", kind.ShortName(), kind.Action())
		}
		return w.Flush()
	},
}
