package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/CaioSouzaC1/futsal-api/repositories"
	"golang.org/x/sync/errgroup"
)

// gameResult classifies a completed game from the home team's perspective.
type gameResult int

const (
	homeWin gameResult = iota
	draw
	visitorWin
)

func resultOf(homeGoals, visitorGoals int) gameResult {
	switch {
	case homeGoals > visitorGoals:
		return homeWin
	case homeGoals < visitorGoals:
		return visitorWin
	default:
		return draw
	}
}

// scorePoints returns the points each side earns for a completed game:
// 3 for a win, 1 each for a draw.
func scorePoints(homeGoals, visitorGoals int) (homePoints, visitorPoints int) {
	switch resultOf(homeGoals, visitorGoals) {
	case homeWin:
		return 3, 0
	case visitorWin:
		return 0, 3
	default:
		return 1, 1
	}
}

// transitionDelta is the result-transition table for edits. Computing the
// per-team point delta directly keeps an edit down to one additive update per
// team instead of a reverse-then-reapply double round trip, which narrows the
// window for lost updates on shared counter rows.
func transitionDelta(old, new gameResult) (homeDelta, visitorDelta int) {
	if old == new {
		return 0, 0
	}
	switch {
	case old == homeWin && new == visitorWin:
		return -3, 3
	case old == visitorWin && new == homeWin:
		return 3, -3
	case old == homeWin && new == draw:
		return -2, 1
	case old == visitorWin && new == draw:
		return 1, -2
	case old == draw && new == homeWin:
		return 2, -1
	default: // draw -> visitor win
		return -1, 2
	}
}

// StandingsService keeps team counters (points, goals_count, games_count)
// consistent with the set of persisted games referencing them. It is the only
// writer of those counters.
type StandingsService interface {
	Apply(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error
	Reverse(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error
	Reconcile(ctx context.Context, exec repositories.SQLExecutor, oldGame, newGame *models.Game) error
}

type standingsService struct {
	teamRepo repositories.TeamRepository
}

func NewStandingsService(teamRepo repositories.TeamRepository) StandingsService {
	return &standingsService{teamRepo: teamRepo}
}

// ensureTeams checks that every referenced team exists before any counter is
// touched. Lookups run in parallel.
func (s *standingsService) ensureTeams(ctx context.Context, exec repositories.SQLExecutor, teamIDs ...int) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, id := range teamIDs {
		id := id
		g.Go(func() error {
			if _, err := s.teamRepo.GetByID(gCtx, exec, id); err != nil {
				if errors.Is(err, repositories.ErrTeamNotFound) {
					return fmt.Errorf("%w: team %d", ErrTeamNotFound, id)
				}
				return fmt.Errorf("failed to load team %d: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *standingsService) Apply(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	if !game.Completed() {
		return ErrGameIncomplete
	}
	if err := s.ensureTeams(ctx, exec, game.HomeTeamID, game.VisitorTeamID); err != nil {
		return err
	}

	homeGoals, visitorGoals := *game.HomeTeamGoals, *game.VisitorTeamGoals
	homePoints, visitorPoints := scorePoints(homeGoals, visitorGoals)

	if err := s.teamRepo.ApplyDelta(ctx, exec, game.HomeTeamID, models.TeamCounterDelta{
		Points: homePoints,
		Goals:  homeGoals,
		Games:  1,
	}); err != nil {
		return fmt.Errorf("failed to apply home team counters: %w", err)
	}
	if err := s.teamRepo.ApplyDelta(ctx, exec, game.VisitorTeamID, models.TeamCounterDelta{
		Points: visitorPoints,
		Goals:  visitorGoals,
		Games:  1,
	}); err != nil {
		return fmt.Errorf("failed to apply visitor team counters: %w", err)
	}
	return nil
}

func (s *standingsService) Reverse(ctx context.Context, exec repositories.SQLExecutor, game *models.Game) error {
	if !game.Completed() {
		return ErrGameIncomplete
	}
	if err := s.ensureTeams(ctx, exec, game.HomeTeamID, game.VisitorTeamID); err != nil {
		return err
	}

	homeGoals, visitorGoals := *game.HomeTeamGoals, *game.VisitorTeamGoals
	homePoints, visitorPoints := scorePoints(homeGoals, visitorGoals)

	if err := s.teamRepo.ApplyDelta(ctx, exec, game.HomeTeamID, models.TeamCounterDelta{
		Points: -homePoints,
		Goals:  -homeGoals,
		Games:  -1,
	}); err != nil {
		return fmt.Errorf("failed to reverse home team counters: %w", err)
	}
	if err := s.teamRepo.ApplyDelta(ctx, exec, game.VisitorTeamID, models.TeamCounterDelta{
		Points: -visitorPoints,
		Goals:  -visitorGoals,
		Games:  -1,
	}); err != nil {
		return fmt.Errorf("failed to reverse visitor team counters: %w", err)
	}
	return nil
}

// Reconcile moves counters from the pre-edit to the post-edit state of a
// game. Goal counters shift by the raw goal difference; points shift by the
// result-transition table; games_count is untouched because the game already
// existed.
func (s *standingsService) Reconcile(ctx context.Context, exec repositories.SQLExecutor, oldGame, newGame *models.Game) error {
	if !oldGame.Completed() || !newGame.Completed() {
		return ErrGameIncomplete
	}
	if err := s.ensureTeams(ctx, exec, oldGame.HomeTeamID, oldGame.VisitorTeamID); err != nil {
		return err
	}

	oldResult := resultOf(*oldGame.HomeTeamGoals, *oldGame.VisitorTeamGoals)
	newResult := resultOf(*newGame.HomeTeamGoals, *newGame.VisitorTeamGoals)
	homePointsDelta, visitorPointsDelta := transitionDelta(oldResult, newResult)

	homeGoalsDelta := *newGame.HomeTeamGoals - *oldGame.HomeTeamGoals
	visitorGoalsDelta := *newGame.VisitorTeamGoals - *oldGame.VisitorTeamGoals

	if err := s.teamRepo.ApplyDelta(ctx, exec, oldGame.HomeTeamID, models.TeamCounterDelta{
		Points: homePointsDelta,
		Goals:  homeGoalsDelta,
	}); err != nil {
		return fmt.Errorf("failed to reconcile home team counters: %w", err)
	}
	if err := s.teamRepo.ApplyDelta(ctx, exec, oldGame.VisitorTeamID, models.TeamCounterDelta{
		Points: visitorPointsDelta,
		Goals:  visitorGoalsDelta,
	}); err != nil {
		return fmt.Errorf("failed to reconcile visitor team counters: %w", err)
	}
	return nil
}
