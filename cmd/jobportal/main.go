// Package main provides the entry point for the job portal server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/jobportal/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "jobportal",
	Short:        "Job Portal HTTP API Server",
	Long:         "Job Portal connects employers posting local jobs with nearby job seekers, with map views of jobs and talent around a viewer's location.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file layered over the environment")
}

// loadConfig resolves configuration from --config, the environment and defaults.
func loadConfig() (config.Config, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
