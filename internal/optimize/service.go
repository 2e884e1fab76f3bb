// Package optimize is the request/response facade over the catalog, the
// scorer, the candidate generators, the counter analyzer, and the ranker.
// Both the CLI and the HTTP server speak to this package only.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crumbworks/teamsmith/internal/counter"
	"github.com/crumbworks/teamsmith/internal/guildboss"
	"github.com/crumbworks/teamsmith/internal/observability"
	"github.com/crumbworks/teamsmith/internal/rank"
	"github.com/crumbworks/teamsmith/internal/reference"
	"github.com/crumbworks/teamsmith/internal/roster"
	"github.com/crumbworks/teamsmith/internal/scoring"
	"github.com/crumbworks/teamsmith/internal/search"
)

// MaxEquippedTreasures is how many treasures a team carries into battle.
const MaxEquippedTreasures = 3

// counterBiasFraction is the per-draw probability that counter-mode
// generation favors a recommended counter pick when filling a slot.
const counterBiasFraction = 0.5

// Limits bounds request parameters and fills in omitted ones.
type Limits struct {
	DefaultCandidates int
	MaxCandidates     int
	DefaultTopN       int
	MaxTopN           int
}

// Service executes optimization requests against loaded content.
//
// Invariant: stateless apart from read-only content and configuration; safe
// for concurrent use.
type Service struct {
	catalog   *roster.Catalog
	data      *reference.Data
	bosses    *guildboss.Registry
	scorer    *scoring.Scorer
	analyzer  *counter.Analyzer
	searchCfg search.Config
	limits    Limits
	logger    *zap.Logger
}

// NewService creates a Service. bosses may be nil when no guild battle
// profiles are loaded; GuildBattle then rejects every request.
//
// Precondition: catalog, data, and logger must be non-nil; limits must carry
// positive defaults and maximums.
func NewService(catalog *roster.Catalog, data *reference.Data, bosses *guildboss.Registry,
	searchCfg search.Config, limits Limits, logger *zap.Logger) *Service {

	return &Service{
		catalog:   catalog,
		data:      data,
		bosses:    bosses,
		scorer:    scoring.NewScorer(data.Synergy),
		analyzer:  counter.NewAnalyzer(data),
		searchCfg: searchCfg,
		limits:    limits,
		logger:    logger,
	}
}

// Catalog exposes the loaded cookie catalog for read-only endpoints.
func (s *Service) Catalog() *roster.Catalog { return s.catalog }

// Data exposes the loaded reference tables for read-only endpoints.
func (s *Service) Data() *reference.Data { return s.data }

// Bosses exposes the loaded guild battle profiles; nil when none are loaded.
func (s *Service) Bosses() *guildboss.Registry { return s.bosses }

// Request is one optimization query. Zero-valued Candidates and TopN take
// the configured defaults. A non-empty Enemy switches to counter mode: teams
// rank by the blend of counter fit and composition quality, and the response
// carries the full enemy analysis.
type Request struct {
	Strategy    string                         `json:"strategy"`
	Candidates  int                            `json:"candidates"`
	TopN        int                            `json:"topN"`
	Required    []string                       `json:"required"`
	Overrides   map[string]roster.StatOverride `json:"overrides"`
	Treasures   []string                       `json:"treasures"`
	Enemy       []string                       `json:"enemy"`
	Seed        *int64                         `json:"seed"`
	Budget      time.Duration                  `json:"budget"`
	WithSynergy bool                           `json:"withSynergy"`
}

// MemberResult is one team member in a response.
type MemberResult struct {
	Name     string          `json:"name"`
	Rarity   roster.Rarity   `json:"rarity"`
	Role     roster.Role     `json:"role"`
	Position roster.Position `json:"position"`
	Element  roster.Element  `json:"element,omitempty"`
	Power    float64         `json:"power"`
	Required bool            `json:"required"`
}

// TeamResult is one ranked team. CounterScore and CombinedScore are set only
// in counter mode; BossFit only for guild battle plans.
type TeamResult struct {
	Rank          int            `json:"rank"`
	Members       []MemberResult `json:"members"`
	Score         scoring.Score  `json:"score"`
	CounterScore  float64        `json:"counterScore,omitempty"`
	CombinedScore float64        `json:"combinedScore,omitempty"`
	BossFit       float64        `json:"bossFit,omitempty"`
}

// Response is the full answer to a Request.
type Response struct {
	RequestID  string                  `json:"requestId"`
	Strategy   string                  `json:"strategy"`
	Teams      []TeamResult            `json:"teams"`
	Incomplete bool                    `json:"incomplete"`
	ElapsedMS  int64                   `json:"elapsedMs"`
	Counter    *counter.Recommendation `json:"counter,omitempty"`
	Treasures  []counter.TreasurePick  `json:"treasures,omitempty"`
}

// Optimize validates the request, generates candidates, scores them, and
// returns the ranked best teams.
//
// Postcondition: On success, len(Teams) <= TopN with 1-based contiguous
// ranks. On failure, the error wraps exactly one of the package sentinels or
// reports an internal fault.
func (s *Service) Optimize(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	requestID := uuid.NewString()

	strategy, candidates, topN, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	required, enemies, treasures, err := s.resolveNames(req)
	if err != nil {
		return nil, err
	}

	opts := scoring.Options{
		WithSynergy: req.WithSynergy,
		Treasures:   treasures,
		Overrides:   req.Overrides,
	}

	resp := &Response{RequestID: requestID, Strategy: string(strategy)}

	// Counter mode: profile the enemy once, then key every candidate on the
	// blend of counter fit and composition quality.
	var profile counter.ThreatProfile
	var rec counter.Recommendation
	counterMode := len(enemies) > 0
	if counterMode {
		profile = s.analyzer.AnalyzeThreat(enemies)
		rec = s.analyzer.Recommend(profile)
		resp.Counter = &rec
		resp.Treasures = s.analyzer.RecommendTreasures(profile, MaxEquippedTreasures)
	}

	evaluate := func(team roster.Team) (scoring.Score, float64, float64) {
		sc := s.scorer.Score(team, opts)
		if !counterMode {
			return sc, 0, sc.Total
		}
		synergy := sc.ElementSynergy + sc.GroupSynergy + sc.ComboSynergy
		cs := s.analyzer.CounterScore(team, profile, rec, synergy)
		return sc, cs, counter.Combined(cs, sc.Total)
	}

	pool := s.catalog.All()

	src := search.NewCryptoSource()
	if req.Seed != nil {
		src = search.NewSeededSource(*req.Seed)
	}
	searchCfg := s.searchCfg
	if req.Budget > 0 {
		searchCfg.Budget = req.Budget
	}
	if counterMode {
		searchCfg.Bias = search.BiasConfig{
			Preferred: rec.Counters,
			Fraction:  counterBiasFraction,
		}
	}

	gen, err := search.New(strategy, scoreFunc(func(team roster.Team) float64 {
		_, _, key := evaluate(team)
		return key
	}), src, searchCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	result, err := gen.Generate(ctx, pool, required, candidates)
	if err != nil {
		if errors.Is(err, search.ErrPoolTooSmall) || errors.Is(err, search.ErrGuardRefused) {
			return nil, fmt.Errorf("%w: %v", ErrInfeasibleConstraint, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	resp.Incomplete = result.Incomplete

	entries := make([]rank.Entry, len(result.Teams))
	for i, team := range result.Teams {
		sc, _, key := evaluate(team)
		entries[i] = rank.Entry{Team: team, Score: sc, Key: key}
	}

	pinned := make(map[string]bool, len(required))
	for _, r := range required {
		pinned[r.Name] = true
	}
	for _, r := range rank.Rank(entries, topN) {
		tr := TeamResult{Rank: r.Rank, Score: r.Score, Members: members(r.Team, req.Overrides, pinned)}
		if counterMode {
			synergy := r.Score.ElementSynergy + r.Score.GroupSynergy + r.Score.ComboSynergy
			tr.CounterScore = s.analyzer.CounterScore(r.Team, profile, rec, synergy)
			tr.CombinedScore = r.Key
		}
		resp.Teams = append(resp.Teams, tr)
	}

	resp.ElapsedMS = time.Since(start).Milliseconds()
	observability.RequestLogger(s.logger, requestID).Info("optimize request served",
		zap.String("strategy", string(strategy)),
		zap.Int("candidates", candidates),
		zap.Int("top_n", topN),
		zap.Bool("counter_mode", counterMode),
		zap.Bool("incomplete", resp.Incomplete),
		zap.Int("teams", len(resp.Teams)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// normalize checks ranges and applies defaults for omitted fields.
func (s *Service) normalize(req Request) (search.Strategy, int, int, error) {
	raw := req.Strategy
	if raw == "" {
		raw = string(search.StrategyRandom)
	}
	strategy, err := search.ParseStrategy(raw)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	candidates := req.Candidates
	if candidates == 0 {
		candidates = s.limits.DefaultCandidates
	}
	if candidates < 1 || candidates > s.limits.MaxCandidates {
		return "", 0, 0, fmt.Errorf("%w: candidates must be 1-%d, got %d",
			ErrInvalidParameter, s.limits.MaxCandidates, req.Candidates)
	}

	topN := req.TopN
	if topN == 0 {
		topN = s.limits.DefaultTopN
	}
	if topN < 1 || topN > s.limits.MaxTopN {
		return "", 0, 0, fmt.Errorf("%w: topN must be 1-%d, got %d",
			ErrInvalidParameter, s.limits.MaxTopN, req.TopN)
	}

	if len(req.Required) > roster.TeamSize {
		return "", 0, 0, fmt.Errorf("%w: at most %d required members, got %d",
			ErrInvalidParameter, roster.TeamSize, len(req.Required))
	}
	if len(req.Enemy) > roster.TeamSize {
		return "", 0, 0, fmt.Errorf("%w: at most %d enemy members, got %d",
			ErrInvalidParameter, roster.TeamSize, len(req.Enemy))
	}
	if len(req.Treasures) > MaxEquippedTreasures {
		return "", 0, 0, fmt.Errorf("%w: at most %d treasures, got %d",
			ErrInvalidParameter, MaxEquippedTreasures, len(req.Treasures))
	}
	if req.Budget < 0 {
		return "", 0, 0, fmt.Errorf("%w: budget must not be negative", ErrInvalidParameter)
	}
	return strategy, candidates, topN, nil
}

// resolveNames maps every name in the request to loaded content.
func (s *Service) resolveNames(req Request) (required, enemies []*roster.Cookie,
	treasures []reference.Treasure, err error) {

	required, err = s.catalog.Resolve(req.Required)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrUnknownCookie, err)
	}
	enemies, err = s.catalog.Resolve(req.Enemy)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrUnknownCookie, err)
	}
	for _, name := range req.Treasures {
		t, ok := s.data.Treasure(name)
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: treasure %q not in reference data",
				ErrUnknownCookie, name)
		}
		treasures = append(treasures, t)
	}
	for name, o := range req.Overrides {
		if _, ok := s.catalog.Get(name); !ok {
			return nil, nil, nil, fmt.Errorf("%w: override for %q not in catalog",
				ErrUnknownCookie, name)
		}
		if verr := o.Validate(); verr != nil {
			return nil, nil, nil, fmt.Errorf("%w: override for %q: %v",
				ErrInvalidParameter, name, verr)
		}
	}
	return required, enemies, treasures, nil
}

func members(team roster.Team, overrides map[string]roster.StatOverride, pinned map[string]bool) []MemberResult {
	out := make([]MemberResult, len(team.Members))
	for i, m := range team.Members {
		var o *roster.StatOverride
		if ov, ok := overrides[m.Name]; ok {
			o = &ov
		}
		out[i] = MemberResult{
			Name:     m.Name,
			Rarity:   m.Rarity,
			Role:     m.Role,
			Position: m.Position,
			Element:  m.Element,
			Power:    m.Power(o),
			Required: pinned[m.Name],
		}
	}
	return out
}

// scoreFunc adapts a plain function to the generator Scorer interface.
type scoreFunc func(roster.Team) float64

func (f scoreFunc) Score(team roster.Team) float64 { return f(team) }
