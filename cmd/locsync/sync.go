package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/locsync/internal/exitcode"
	"github.com/gyeh/locsync/internal/model"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one migration pass over every unit and exit",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	log := loadConfig()
	ctx := context.Background()

	store := openSource(ctx, log)
	summary, err := newOrchestrator(store, log).Run(ctx)
	closeSource(store, log)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitcode.RunError)
	}

	printSummary(summary)
	if summary.Failed() {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func printSummary(s *model.RunSummary) {
	fmt.Println("=== locsync run ===")
	fmt.Printf("Run ID:   %s\n", s.RunID)
	fmt.Printf("Duration: %s\n\n", s.Duration.Round(time.Millisecond))
	fmt.Printf("  %-20s %-10s %-16s %9s %9s %9s\n", "UNIT", "STATE", "OUTCOME", "EXTRACTED", "LOADED", "PURGED")
	for _, r := range s.Results {
		fmt.Printf("  %-20s %-10s %-16s %9d %9d %9d\n",
			r.Unit, r.State, r.Outcome, r.RecordsExtracted, r.RecordsLoaded, r.RecordsPurged)
		if r.Error != "" {
			fmt.Printf("    error: %s\n", r.Error)
		}
	}
	extracted, loaded, purged := s.Totals()
	fmt.Printf("\nTotal: %d extracted, %d loaded, %d purged\n", extracted, loaded, purged)
}
