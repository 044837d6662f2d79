package main

import (
	"fmt"
	"os"
	"path/filepath"

	"subcon/internal/commands"
	"subcon/internal/config"
	"subcon/internal/logging"
)

func main() {
	// Create config directory if it doesn't exist
	configDir, err := config.GetGlobalConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		os.Exit(1)
	}

	logger, closer, err := logging.NewFileLogger(configDir, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		logger = logging.Discard()
	} else {
		defer closer.Close()
	}

	// Load config
	cfg, err := config.Load(filepath.Join(configDir, "config.json"))
	if err != nil {
		// Continue with defaults; the file is rewritten by 'subcon config set'
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}

	// Execute root command
	if err := commands.Execute(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if closer != nil {
			closer.Close()
		}
		os.Exit(1)
	}
}
