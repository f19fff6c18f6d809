package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"Showcase/internal/catalog"
	"Showcase/internal/config"
	"Showcase/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load()
	if err != nil {
		kit.NewLogger(service, "info").Fatal("config", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	src, closeSrc, err := catalog.OpenSource(cfg.CatalogSource, cfg.CatalogURL, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("open catalog source", zap.Error(err))
	}
	defer func() { _ = closeSrc() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	loader := catalog.NewLoader(src, catalog.NewStore(), log)
	loader.Timeout = cfg.FetchTimeout
	loader.Metrics = catalog.NewFetchMetrics(reg)

	// Warm the cache; failures fall back and are retried on the first request.
	if _, err := loader.Load(context.Background()); err != nil {
		log.Warn("initial catalog load failed", zap.Error(err))
	}

	h := catalog.NewHandler(&catalog.Server{Loader: loader, Log: log}, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		ReloadToken:    cfg.ReloadToken,
	})

	if err := kit.RunHTTPServer(context.Background(), ":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
