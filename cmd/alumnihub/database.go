package main

import (
	"context"
	"fmt"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/config"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/core"
	"github.com/Alumni-Hub/Alumni-Hub-Backend/log"
	"github.com/spf13/cobra"
)

func openDatabase(ctx context.Context, cfg *config.Config) (*core.DatabaseManager, error) {
	dsn, err := cfg.DatabaseDSN(ctx)
	if err != nil {
		return nil, err
	}
	dm, err := core.New(cfg.DBDriver, dsn, cfg.DBMaxConnections, core.ParseLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return dm, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		dm, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer dm.Close()

		if err := core.Migrate(ctx, dm.DB); err != nil {
			return err
		}
		log.Info("Schema is up to date")
		return nil
	},
}

var backfillPhonesCmd = &cobra.Command{
	Use:   "backfill-phones",
	Short: "Rewrite stored phone numbers into canonical form",
	Long: `Normalize the mobile and WhatsApp numbers of every batchmate.

Lookups still fall back to the raw number for rows stored before
normalization; once this command has run the fallback never matches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		ctx := cmd.Context()
		dm, err := openDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		defer dm.Close()

		updated, err := core.BackfillPhoneNumbers(ctx, dm.DB, batchSize)
		if err != nil {
			return err
		}
		log.Logger.Info().Int("updated", updated).Msg("Phone numbers normalized")
		return nil
	},
}

func init() {
	backfillPhonesCmd.Flags().Int("batch-size", 500, "Batchmates loaded per batch")
}
