package main

import (
	"fmt"
	"os"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/config"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "alumnihub",
	Short: "Alumni Hub - batchmate registry and event attendance",
	Long: `Alumni Hub keeps the batchmate registry and records who attended
which reunion event, by QR self check-in or by an organizer.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Alumni Hub version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringSlice("env-file", []string{".env"}, "Dotenv files to load before the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(backfillPhonesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(createTokenCmd)
}

// loadConfig reads settings and initializes logging from them.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, _ := cmd.Flags().GetStringSlice("env-file")
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Init(log.Config{
		Level:      log.ParseLevel(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})
	return cfg, nil
}
