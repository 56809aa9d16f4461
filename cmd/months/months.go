// Package months provides the months command, which lists the month
// selections and the summary column each one fills from.
package months

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/gy/internal/output"
	"github.com/klytics/gy/internal/reconcile"
)

type monthJSON struct {
	Number  int    `json:"number"`
	Column  string `json:"column"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// NewCommand returns the months subcommand.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the month selections",
		Long:  "Lists the twelve months, each with the output-sheet column its value is read from. Any listed form is accepted by --month.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			current := reconcile.CurrentMonth(time.Now())

			if jsonFlag {
				var list []monthJSON
				for _, m := range reconcile.Months() {
					list = append(list, monthJSON{
						Number:  m.Number,
						Column:  string(m.Column),
						Label:   m.Label(),
						Current: m == current,
					})
				}
				return output.PrintJSON(cmd.OutOrStdout(), "months", list)
			}

			bold := color.New(color.Bold)
			out := cmd.OutOrStdout()
			for _, m := range reconcile.Months() {
				line := fmt.Sprintf("  %2d  %s", m.Number, m)
				if m == current {
					bold.Fprintln(out, line+"  (current)")
					continue
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
