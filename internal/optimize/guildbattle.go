package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crumbworks/teamsmith/internal/observability"
	"github.com/crumbworks/teamsmith/internal/rank"
	"github.com/crumbworks/teamsmith/internal/roster"
	"github.com/crumbworks/teamsmith/internal/scoring"
	"github.com/crumbworks/teamsmith/internal/search"
)

// GuildBattleRequest plans a team against one named boss. The remaining
// fields carry the same meaning and defaults as Request.
type GuildBattleRequest struct {
	Boss        string        `json:"boss"`
	Strategy    string        `json:"strategy"`
	Candidates  int           `json:"candidates"`
	TopN        int           `json:"topN"`
	Required    []string      `json:"required"`
	Seed        *int64        `json:"seed"`
	Budget      time.Duration `json:"budget"`
	WithSynergy bool          `json:"withSynergy"`
}

// GuildBattleResponse is the answer to a GuildBattleRequest. Each team's
// BossFit is set and its ranking key is the composition total plus the fit.
type GuildBattleResponse struct {
	RequestID  string       `json:"requestId"`
	Boss       string       `json:"boss"`
	Strategy   string       `json:"strategy"`
	Teams      []TeamResult `json:"teams"`
	Incomplete bool         `json:"incomplete"`
	ElapsedMS  int64        `json:"elapsedMs"`
}

// GuildBattle validates the request, generates candidates, and ranks them by
// composition quality adjusted for fit against the named boss.
//
// Postcondition: On success, len(Teams) <= TopN with 1-based contiguous
// ranks. On failure, the error wraps exactly one of the package sentinels or
// reports an internal fault.
func (s *Service) GuildBattle(ctx context.Context, req GuildBattleRequest) (*GuildBattleResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()

	if s.bosses == nil {
		return nil, fmt.Errorf("%w: no boss profiles loaded", ErrUnknownBoss)
	}
	boss, ok := s.bosses.Get(req.Boss)
	if !ok {
		return nil, fmt.Errorf("%w: %q not in loaded profiles", ErrUnknownBoss, req.Boss)
	}

	strategy, candidates, topN, err := s.normalize(Request{
		Strategy:   req.Strategy,
		Candidates: req.Candidates,
		TopN:       req.TopN,
		Required:   req.Required,
		Budget:     req.Budget,
	})
	if err != nil {
		return nil, err
	}
	required, err := s.catalog.Resolve(req.Required)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCookie, err)
	}

	opts := scoring.Options{WithSynergy: req.WithSynergy}
	evaluate := func(team roster.Team) (scoring.Score, float64, float64) {
		sc := s.scorer.Score(team, opts)
		fit := boss.Fit(team)
		return sc, fit, sc.Total + fit
	}

	src := search.NewCryptoSource()
	if req.Seed != nil {
		src = search.NewSeededSource(*req.Seed)
	}
	searchCfg := s.searchCfg
	if req.Budget > 0 {
		searchCfg.Budget = req.Budget
	}

	gen, err := search.New(strategy, scoreFunc(func(team roster.Team) float64 {
		_, _, key := evaluate(team)
		return key
	}), src, searchCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	result, err := gen.Generate(ctx, s.catalog.All(), required, candidates)
	if err != nil {
		if errors.Is(err, search.ErrPoolTooSmall) || errors.Is(err, search.ErrGuardRefused) {
			return nil, fmt.Errorf("%w: %v", ErrInfeasibleConstraint, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	entries := make([]rank.Entry, len(result.Teams))
	for i, team := range result.Teams {
		sc, _, key := evaluate(team)
		entries[i] = rank.Entry{Team: team, Score: sc, Key: key}
	}

	pinned := make(map[string]bool, len(required))
	for _, r := range required {
		pinned[r.Name] = true
	}
	resp := &GuildBattleResponse{
		RequestID:  requestID,
		Boss:       boss.Name,
		Strategy:   string(strategy),
		Incomplete: result.Incomplete,
	}
	for _, r := range rank.Rank(entries, topN) {
		resp.Teams = append(resp.Teams, TeamResult{
			Rank:    r.Rank,
			Score:   r.Score,
			Members: members(r.Team, nil, pinned),
			BossFit: r.Key - r.Score.Total,
		})
	}

	resp.ElapsedMS = time.Since(start).Milliseconds()
	observability.RequestLogger(s.logger, requestID).Info("guild battle plan served",
		zap.String("boss", boss.Name),
		zap.String("strategy", string(strategy)),
		zap.Int("candidates", candidates),
		zap.Int("top_n", topN),
		zap.Bool("incomplete", resp.Incomplete),
		zap.Int("teams", len(resp.Teams)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}
