package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"subcon/internal/config"
	"subcon/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Variables to hold flag values
	setServerURL   string
	setDefaultUser string
	setTimeout     string
	setMessageTTL  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage subcon configuration",
	Long:  "View and update subcon configuration settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get configuration value",
	Long:  "Display specific configuration value or all configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		out := cmd.OutOrStdout()

		// If no argument is provided, show all config
		if len(args) == 0 {
			fmt.Fprintln(out, "Current configuration:")
			for _, key := range config.Keys() {
				value, _ := cfg.Get(key)
				fmt.Fprintf(out, "%s: %s\n", key, value)
			}
			return nil
		}

		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	Long:  "Update configuration settings like the server URL or banner duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobalConfigFile()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		out := cmd.OutOrStdout()

		// Update configuration based on provided flags
		updates := map[string]string{
			"server-url":   setServerURL,
			"default-user": setDefaultUser,
			"timeout":      setTimeout,
			"message-ttl":  setMessageTTL,
		}

		configUpdated := false
		for _, key := range config.Keys() {
			if !cmd.Flags().Changed(key) {
				continue
			}
			oldValue, _ := cfg.Get(key)
			if err := cfg.Set(key, updates[key]); err != nil {
				return err
			}
			newValue, _ := cfg.Get(key)
			fmt.Fprintf(out, "%s updated: %s -> %s\n", key, oldValue, newValue)
			configUpdated = true
		}

		// Save configuration if it was updated
		if configUpdated {
			if err := config.SaveGlobalConfig(cfg); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Fprintln(out, "Configuration updated successfully.")
		} else {
			fmt.Fprintln(out, "No changes were made to the configuration.")
		}

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  "Create a new configuration file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetGlobalConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		out := cmd.OutOrStdout()

		// Check if config file exists
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintln(out, "Configuration file already exists.")
			fmt.Fprintln(out, "Use 'subcon config set' to modify existing configuration.")
			return nil
		}

		cfg := config.Default()
		if setServerURL != "" {
			if err := cfg.Set("server-url", setServerURL); err != nil {
				return err
			}
		}

		if err := cfg.Save(configPath); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Fprintln(out, "Configuration initialized successfully.")
		fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
		return nil
	},
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show configuration file paths",
	Long:  "Display paths to the configuration and log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := config.GetGlobalConfigDir()
		if err != nil {
			return err
		}
		configPath := filepath.Join(configDir, "config.json")
		logPath := filepath.Join(configDir, logging.LogFileName)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Config paths:")
		fmt.Fprintf(out, "- Config directory: %s\n", configDir)
		fmt.Fprintf(out, "- Config file: %s\n", configPath)
		fmt.Fprintf(out, "- Log file: %s\n", logPath)

		// Check existence
		fmt.Fprintln(out, "\nExistence status:")
		for _, f := range []struct{ name, path string }{{"Config file", configPath}, {"Log file", logPath}} {
			if _, err := os.Stat(f.path); os.IsNotExist(err) {
				fmt.Fprintf(out, "- %s: Does not exist\n", f.name)
			} else {
				fmt.Fprintf(out, "- %s: Exists\n", f.name)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathsCmd)

	configSetCmd.Flags().StringVar(&setServerURL, "server-url", "", "Set API server URL")
	configSetCmd.Flags().StringVar(&setDefaultUser, "default-user", "", "Set the user ID prefilled in the console")
	configSetCmd.Flags().StringVar(&setTimeout, "timeout", "", "Set the request timeout, e.g. 30s")
	configSetCmd.Flags().StringVar(&setMessageTTL, "message-ttl", "", "Set how long status messages stay visible, e.g. 5s")

	configInitCmd.Flags().StringVar(&setServerURL, "server-url", "", "Set API server URL")
}
