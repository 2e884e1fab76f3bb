// Package main provides the HTTP server binary exposing the team optimizer
// API.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/crumbworks/teamsmith/internal/config"
	"github.com/crumbworks/teamsmith/internal/guildboss"
	"github.com/crumbworks/teamsmith/internal/observability"
	"github.com/crumbworks/teamsmith/internal/optimize"
	"github.com/crumbworks/teamsmith/internal/reference"
	"github.com/crumbworks/teamsmith/internal/roster"
	"github.com/crumbworks/teamsmith/internal/search"
	"github.com/crumbworks/teamsmith/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting teamsmith server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load content
	loadStart := time.Now()
	catalog, err := roster.LoadCatalog(cfg.Data.CookiesDir)
	if err != nil {
		logger.Fatal("loading cookie catalog", zap.Error(err))
	}
	data, err := reference.Load(cfg.Data.ReferenceDir)
	if err != nil {
		logger.Fatal("loading reference data", zap.Error(err))
	}
	if err := data.Validate(catalog); err != nil {
		logger.Fatal("validating reference data", zap.Error(err))
	}
	var bosses *guildboss.Registry
	if cfg.Data.BossesFile != "" {
		if _, statErr := os.Stat(cfg.Data.BossesFile); statErr == nil {
			bosses, err = guildboss.Load(cfg.Data.BossesFile)
			if err != nil {
				logger.Fatal("loading boss profiles", zap.Error(err))
			}
		} else {
			logger.Warn("boss profiles not found, guild battle planning disabled",
				zap.String("path", cfg.Data.BossesFile),
			)
		}
	}
	bossCount := 0
	if bosses != nil {
		bossCount = bosses.Len()
	}
	logger.Info("content loaded",
		zap.Int("cookies", catalog.Len()),
		zap.Int("treasures", len(data.Treasures)),
		zap.Int("counters", len(data.Counters.All())),
		zap.Int("bosses", bossCount),
		zap.Duration("elapsed", time.Since(loadStart)),
	)

	svc := optimize.NewService(catalog, data, bosses, searchConfig(cfg.Search), optimize.Limits{
		DefaultCandidates: cfg.Search.DefaultCandidates,
		MaxCandidates:     cfg.Search.MaxCandidates,
		DefaultTopN:       cfg.Search.DefaultTopN,
		MaxTopN:           cfg.Search.MaxTopN,
	}, logger)

	api := server.NewAPI(svc, logger)
	httpSrv := api.NewHTTPServer(cfg.Server)

	lifecycle := server.NewLifecycle(logger, cfg.Server.ShutdownTimeout)
	lifecycle.Add("http", &server.FuncService{
		StartFn: func() error {
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
		StopFn: httpSrv.Shutdown,
	})

	logger.Info("teamsmith server ready",
		zap.Duration("startup", time.Since(start)),
	)
	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}

func searchConfig(s config.SearchConfig) search.Config {
	return search.Config{
		Genetic: search.GeneticConfig{
			PopulationSize: s.Genetic.PopulationSize,
			Generations:    s.Genetic.Generations,
			EliteFraction:  s.Genetic.EliteFraction,
			MutationRate:   s.Genetic.MutationRate,
		},
		Exhaustive: search.ExhaustiveConfig{
			GuardPoolSize:    s.Exhaustive.GuardPoolSize,
			GuardMinRequired: s.Exhaustive.GuardMinRequired,
			MaxCombinations:  s.Exhaustive.MaxCombinations,
			Workers:          s.Exhaustive.Workers,
		},
		Budget: s.Budget,
	}
}
