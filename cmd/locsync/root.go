package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/locsync/internal/config"
	"github.com/gyeh/locsync/internal/exitcode"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "locsync",
	Short: "Document store → Postgres location migrator",
	Long: "Periodically moves location documents from MongoDB collections into per-unit " +
		"Postgres databases and deletes them from the source once the load has committed.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigPath, "config", "locsync.yaml", "Path to YAML config file")
	pf.StringVar(&cfg.EnvFile, "env-file", ".env", "Optional env file loaded before the config")
	pf.StringVar(&cfg.LogFormat, "log-format", "", "Log format: text or json (default from config, else text)")
	pf.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
