package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/locsync/internal/exitcode"
	"github.com/gyeh/locsync/internal/health"
	"github.com/gyeh/locsync/internal/schedule"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run at start-up and on the configured schedule, serving a liveness endpoint",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", "", "Liveness listen address (default from config, else :$PORT or :3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := loadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openSource(ctx, log)
	defer closeSource(store, log)

	trigger, err := schedule.New(cfg.Schedule, newOrchestrator(store, log), log)
	if err != nil {
		log.Error().Err(err).Msg("scheduler setup failed")
		os.Exit(exitcode.ConfigError)
	}

	srv := health.NewServer(cfg.ListenAddr, log)
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()

	// Runs are not cancelled by shutdown; Stop waits for them instead.
	trigger.Start(context.WithoutCancel(ctx))

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err := <-srvErr:
		if err != nil {
			log.Error().Err(err).Msg("liveness server failed")
		}
	}

	trigger.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("liveness server shutdown failed")
	}
	return nil
}
