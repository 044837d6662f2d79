package commands

import (
	"fmt"

	"subcon/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List the plans accepted by update",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, plan := range models.Plans {
			fmt.Fprintf(out, "%-20s %s\n", color.CyanString(string(plan)), plan.Label())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
}
