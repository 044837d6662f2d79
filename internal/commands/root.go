package commands

import (
	"subcon/internal/api"
	"subcon/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	globalConfig *config.Config
	logger       *logrus.Logger

	// Persistent flag values
	serverURLFlag string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "subcon",
	Short: "Subscription console - look up and change user subscription plans",
	Long: `subcon is an operator console for the subscription service.
Run without arguments to open the interactive console, or use the status and
update commands from scripts.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if globalConfig == nil {
			globalConfig = config.Default()
		}
		if serverURLFlag != "" {
			if err := globalConfig.Set("server-url", serverURLFlag); err != nil {
				return err
			}
		}
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

// Execute runs the root command
func Execute(cfg *config.Config, log *logrus.Logger) error {
	globalConfig = cfg
	logger = log
	return rootCmd.Execute()
}

// newClient builds an API client from the effective configuration
func newClient() *api.Client {
	return api.NewClient(globalConfig.ServerURL, globalConfig.Timeout, logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURLFlag, "server-url", "", "Override the API server URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug output to the log file")
}
