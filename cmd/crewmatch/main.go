// Package main provides the crewmatch server and its operator commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/okian/crewmatch/internal/config"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "crewmatch",
	Short:             "CrewMatch team matching server",
	Long:              "CrewMatch ranks teammates for hackathons and projects, hosts group chat and syncs calendar events.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML config file (overrides CREWMATCH_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
}

// setup loads configuration and initializes logging for every command.
func setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	path := configFile
	if path == "" {
		path = os.Getenv("CREWMATCH_CONFIG")
	}
	loaded, err := config.LoadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	cfg = loaded

	if err := logger.InitWithBackend(cfg.LogBackend); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel),
			logger.Error(err),
		)
		_ = logger.SetLevelString("info")
	}
	return nil
}
