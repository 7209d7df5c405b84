package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/locsync/internal/db"
	"github.com/gyeh/locsync/internal/exitcode"
	"github.com/gyeh/locsync/internal/snapshot"
	"github.com/gyeh/locsync/internal/transfer"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Load a Parquet snapshot into a unit's destination",
	Long: "Re-coerces the documents stored in a snapshot and loads them into the unit's " +
		"destination in one transaction. The source is not touched.",
	RunE: runRestore,
}

var (
	restoreUnit string
	restoreFile string
)

func init() {
	f := restoreCmd.Flags()
	f.StringVar(&restoreUnit, "unit", "", "Unit whose destination receives the rows (required)")
	f.StringVar(&restoreFile, "file", "", "Path to snapshot Parquet file (required)")
	_ = restoreCmd.MarkFlagRequired("unit")
	_ = restoreCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	log := loadConfig()
	ctx := context.Background()

	unit, ok := cfg.Unit(restoreUnit)
	if !ok {
		log.Error().Str("unit", restoreUnit).Msg("unknown unit")
		os.Exit(exitcode.UsageError)
	}
	log = log.With().Str("unit", unit.Name).Str("snapshot", restoreFile).Logger()

	docs, err := snapshot.Load(restoreFile)
	if err != nil {
		log.Error().Err(err).Msg("snapshot read failed")
		os.Exit(exitcode.UsageError)
	}

	loader := transfer.NewLoader(db.NewLocationWriter(log, cfg.LoadMode))
	n, err := loader.Load(ctx, unit.Destination, docs)
	if err != nil {
		log.Error().Err(err).Msg("restore failed")
		if errors.Is(err, transfer.ErrDestinationConnect) {
			os.Exit(exitcode.DBConnError)
		}
		os.Exit(exitcode.RunError)
	}

	fmt.Printf("Restore complete: %d rows loaded into %s\n", n, unit.Destination)
	return nil
}
