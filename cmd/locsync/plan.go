package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run extraction and validation (no writes, no deletes)",
	RunE:  runPlan,
}

var planShowRejected int

func init() {
	planCmd.Flags().IntVar(&planShowRejected, "show-rejected", 5, "Rejected documents to list per unit")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := loadConfig()
	ctx := context.Background()

	store := openSource(ctx, log)
	defer closeSource(store, log)

	plans := newOrchestrator(store, log).Plan(ctx)

	fmt.Println("=== locsync plan ===")
	fmt.Printf("Source:      %s\n", cfg.Source.Database)
	fmt.Printf("Load mode:   %s\n", cfg.LoadMode)
	fmt.Printf("Purge batch: %d\n\n", cfg.PurgeBatchSize)

	for _, p := range plans {
		unit, _ := cfg.Unit(p.Unit)
		fmt.Printf("Unit %s (%s → %s)\n", p.Unit, p.Collection, unit.Destination)
		if p.Err != nil {
			fmt.Printf("  extraction failed: %v\n\n", p.Err)
			continue
		}
		batches := (p.Documents + cfg.PurgeBatchSize - 1) / cfg.PurgeBatchSize
		fmt.Printf("  documents: %d\n", p.Documents)
		fmt.Printf("  valid:     %d\n", p.Valid)
		fmt.Printf("  rejected:  %d\n", len(p.Rejected))
		fmt.Printf("  purge batches if loaded: %d\n", batches)
		for i, r := range p.Rejected {
			if i >= planShowRejected {
				fmt.Printf("    ... %d more\n", len(p.Rejected)-i)
				break
			}
			fmt.Printf("    %v\n", r)
		}
		if len(p.Rejected) > 0 {
			fmt.Println("  a run would fail this unit: every document must coerce")
		}
		fmt.Println()
	}
	return nil
}
