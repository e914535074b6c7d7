// Command cityfeedback is the terminal client of the CityFeedback portal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cityfeedback/portal/internal/cli"
	"github.com/cityfeedback/portal/internal/infrastructure/backend"
	"github.com/cityfeedback/portal/internal/infrastructure/config"
	"github.com/cityfeedback/portal/internal/infrastructure/session"
	"github.com/cityfeedback/portal/pkg/logger"
)

func load(ctx context.Context) (*cli.Env, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	path, err := cfg.LocalStorePath()
	if err != nil {
		return nil, err
	}
	schema, err := cfg.Schema()
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: os.Stderr,
		App:    "cli",
	})

	return &cli.Env{
		Backend: backend.New(cfg.Backend.URL, cfg.Backend.Timeout, logger.Component("backend")),
		Store:   session.NewFileStore(path),
		Schema:  schema,
		Log:     logger.Component("cli"),
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(load).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
