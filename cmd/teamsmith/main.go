// Package main provides the teamsmith command line interface: one-shot team
// optimization, counter analysis, and guild battle planning against local
// content files.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/crumbworks/teamsmith/internal/config"
	"github.com/crumbworks/teamsmith/internal/counter"
	"github.com/crumbworks/teamsmith/internal/guildboss"
	"github.com/crumbworks/teamsmith/internal/observability"
	"github.com/crumbworks/teamsmith/internal/optimize"
	"github.com/crumbworks/teamsmith/internal/reference"
	"github.com/crumbworks/teamsmith/internal/roster"
	"github.com/crumbworks/teamsmith/internal/search"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty uses built-in defaults")
	cookiesDir := flag.String("cookies-dir", "", "override for the cookie catalog directory")
	referenceDir := flag.String("reference-dir", "", "override for the reference data directory")
	bossesFile := flag.String("bosses-file", "", "override for the boss profiles file")
	strategy := flag.String("strategy", "random", "generation strategy: random, greedy, genetic, exhaustive")
	candidates := flag.Int("candidates", 0, "candidate teams to generate; 0 uses the configured default")
	topN := flag.Int("top", 0, "teams to report; 0 uses the configured default")
	required := flag.String("required", "", "comma-separated cookies every team must include")
	enemy := flag.String("enemy", "", "comma-separated enemy team; enables counter analysis")
	boss := flag.String("boss", "", "boss name; enables guild battle planning")
	treasures := flag.String("treasures", "", "comma-separated treasures to score with")
	seed := flag.Int64("seed", 0, "random seed for reproducible runs")
	budget := flag.Duration("budget", 0, "time budget for genetic and exhaustive runs; 0 uses the configured default")
	synergy := flag.Bool("synergy", false, "score element, group, and combo synergy")
	jsonOut := flag.Bool("json", false, "emit the raw JSON response")
	flag.Parse()

	var seedPtr *int64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedPtr = seed
		}
	})

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *cookiesDir != "" {
		cfg.Data.CookiesDir = *cookiesDir
	}
	if *referenceDir != "" {
		cfg.Data.ReferenceDir = *referenceDir
	}
	if *bossesFile != "" {
		cfg.Data.BossesFile = *bossesFile
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

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
			if bosses, err = guildboss.Load(cfg.Data.BossesFile); err != nil {
				logger.Fatal("loading boss profiles", zap.Error(err))
			}
		}
	}

	svc := optimize.NewService(catalog, data, bosses, searchConfig(cfg.Search), optimize.Limits{
		DefaultCandidates: cfg.Search.DefaultCandidates,
		MaxCandidates:     cfg.Search.MaxCandidates,
		DefaultTopN:       cfg.Search.DefaultTopN,
		MaxTopN:           cfg.Search.MaxTopN,
	}, logger)

	ctx := context.Background()

	if *boss != "" {
		resp, err := svc.GuildBattle(ctx, optimize.GuildBattleRequest{
			Boss:        *boss,
			Strategy:    *strategy,
			Candidates:  *candidates,
			TopN:        *topN,
			Required:    splitList(*required),
			Seed:        seedPtr,
			Budget:      *budget,
			WithSynergy: *synergy,
		})
		if err != nil {
			logger.Fatal("guild battle planning failed", zap.Error(err))
		}
		if *jsonOut {
			emitJSON(resp)
			return
		}
		fmt.Printf("Guild battle plan vs %s (%s, %dms)\n\n", resp.Boss, resp.Strategy, resp.ElapsedMS)
		printTeams(resp.Teams)
		return
	}

	resp, err := svc.Optimize(ctx, optimize.Request{
		Strategy:    *strategy,
		Candidates:  *candidates,
		TopN:        *topN,
		Required:    splitList(*required),
		Enemy:       splitList(*enemy),
		Treasures:   splitList(*treasures),
		Seed:        seedPtr,
		Budget:      *budget,
		WithSynergy: *synergy,
	})
	if err != nil {
		logger.Fatal("optimization failed", zap.Error(err))
	}
	if *jsonOut {
		emitJSON(resp)
		return
	}

	fmt.Printf("Top teams (%s, %dms)\n", resp.Strategy, resp.ElapsedMS)
	if resp.Incomplete {
		fmt.Println("note: budget exhausted, results are best-effort")
	}
	fmt.Println()
	if resp.Counter != nil {
		printCounter(resp.Counter)
		for _, pick := range resp.Treasures {
			fmt.Printf("  treasure: %s (%.1f) %s\n", pick.Name, pick.Score, pick.Rationale)
		}
		fmt.Println()
	}
	printTeams(resp.Teams)
}

func printTeams(teams []optimize.TeamResult) {
	for _, team := range teams {
		fmt.Printf("#%d  total %.1f", team.Rank, team.Score.Total)
		if team.CombinedScore > 0 {
			fmt.Printf("  counter %.1f  combined %.1f", team.CounterScore, team.CombinedScore)
		}
		if team.BossFit != 0 {
			fmt.Printf("  boss fit %+.1f", team.BossFit)
		}
		fmt.Println()
		for _, m := range team.Members {
			marker := " "
			if m.Required {
				marker = "*"
			}
			fmt.Printf("  %s %-28s %-18s %-8s %-6s %.2f\n",
				marker, m.Name, m.Rarity, m.Role, m.Position, m.Power)
		}
		fmt.Println()
	}
}

func printCounter(rec *counter.Recommendation) {
	fmt.Printf("Enemy analysis (confidence %d%%)\n", rec.Confidence)
	if rec.MetaTeam != "" {
		fmt.Printf("  known composition: %s\n", rec.MetaTeam)
	}
	fmt.Printf("  strategy: %s\n", rec.Strategy.Name)
	if len(rec.Counters) > 0 {
		fmt.Printf("  counters: %s\n", strings.Join(rec.Counters, ", "))
	}
	if len(rec.PriorityTargets) > 0 {
		fmt.Printf("  focus: %s\n", strings.Join(rec.PriorityTargets, ", "))
	}
	for _, w := range rec.Weaknesses {
		fmt.Printf("  weakness [%s %d%%]: %s\n", w.Severity, w.Confidence, w.Description)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func emitJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encoding response: %v", err)
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
