package commands

import (
	"fmt"

	"subcon/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive subscription console",
	Long:  `Open a two-panel console: look up a user's subscription on the left, submit a plan change on the right.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

func runConsole() error {
	logger.WithField("server_url", globalConfig.ServerURL).Info("starting console")

	model := ui.NewModel(newClient(), globalConfig, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running console: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
