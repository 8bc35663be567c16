package main

import (
	"context"
	"fmt"
	"os"

	"github.com/oakline/ledger/internal/bootstrap"
	"github.com/oakline/ledger/internal/infrastructure/config"
	"github.com/oakline/ledger/internal/infrastructure/logger"
	"github.com/oakline/ledger/internal/interfaces/cli"
)

var version = "dev"

func main() {
	var configPath, logLevel string

	open := func(ctx context.Context) (*bootstrap.App, error) {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		log, err := logger.New(&logger.Config{
			Level:      logLevel,
			Format:     "console",
			Output:     "stderr",
			TimeFormat: "15:04:05",
		})
		if err != nil {
			return nil, err
		}
		return bootstrap.New(ctx, cfg, log.Named("ledgerctl"))
	}

	root := cli.NewRootCmd(open, version)
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
