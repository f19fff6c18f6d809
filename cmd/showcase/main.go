package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"Showcase/internal/apiclient"
	"Showcase/internal/catalog"
	"Showcase/internal/chat"
	"Showcase/internal/cli"
	"Showcase/internal/config"
	"Showcase/pkg/kit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := kit.NewLogger("showcase", cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	src, closeSrc, err := catalog.OpenSource(cfg.CatalogSource, cfg.CatalogURL, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	loader := catalog.NewLoader(src, catalog.NewStore(), log)
	loader.Timeout = cfg.FetchTimeout

	deps := cli.Deps{Log: log, Loader: loader, Out: os.Stdout}

	if cfg.ChatBaseURL != "" {
		c := apiclient.NewClient(cfg.ChatBaseURL, log)
		c.Timeout = cfg.ChatTimeout
		c.Credentials.Set(cfg.ChatToken)
		c.Notifier = apiclient.NotifierFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})
		c.Loading = apiclient.NewLoadingTracker(&spinner{})
		deps.Chat = chat.NewService(c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(deps).ExecuteContext(ctx); err != nil {
		log.Debug("command failed", zap.Error(err))
		return err
	}
	return nil
}

// spinner writes a loading marker to stderr.
type spinner struct{}

func (*spinner) Show() { fmt.Fprint(os.Stderr, "loading...") }
func (*spinner) Hide() { fmt.Fprint(os.Stderr, "\r          \r") }
