package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/locsync/internal/db"
	"github.com/gyeh/locsync/internal/exitcode"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply destination schema migrations to every unit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := loadConfig()
	ctx := context.Background()

	failed := 0
	for _, u := range cfg.Units {
		ulog := log.With().Str("unit", u.Name).Logger()

		pool, err := db.Connect(ctx, u.Destination, ulog)
		if err != nil {
			ulog.Error().Err(err).Msg("database connection failed")
			failed++
			continue
		}
		err = db.ApplyMigrations(ctx, pool, ulog)
		pool.Close()
		if err != nil {
			ulog.Error().Err(err).Msg("migration failed")
			failed++
		}
	}

	if failed > 0 {
		log.Error().Int("failed_units", failed).Msg("migrations incomplete")
		os.Exit(exitcode.DBConnError)
	}
	log.Info().Msg("all migrations applied successfully")
	return nil
}
