package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/CaioSouzaC1/futsal-api/repositories"
	"golang.org/x/sync/errgroup"
)

// StandingsBroadcaster pushes a fresh standings snapshot to live listeners.
// Implemented by the websocket hub; a nil broadcaster disables the feed.
type StandingsBroadcaster interface {
	BroadcastStandings(teams []*models.Team)
}

type GameInput struct {
	Date             time.Time
	HomeTeamID       int
	VisitorTeamID    int
	Start            string
	End              string
	HomeTeamGoals    *int
	VisitorTeamGoals *int
}

// GameService sequences team-reference validation, game persistence and the
// standings ledger. Persistence and ledger updates for one operation share a
// transaction, so a ledger failure rolls the game row back.
type GameService interface {
	Create(ctx context.Context, input GameInput) (*models.Game, error)
	Edit(ctx context.Context, id int, input GameInput) (*models.Game, error)
	Delete(ctx context.Context, id int) (*models.Game, error)
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context) ([]*models.Game, error)
}

type gameService struct {
	db          *sql.DB
	gameRepo    repositories.GameRepository
	teamRepo    repositories.TeamRepository
	standings   StandingsService
	broadcaster StandingsBroadcaster
	logger      *slog.Logger
}

func NewGameService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	teamRepo repositories.TeamRepository,
	standings StandingsService,
	broadcaster StandingsBroadcaster,
	logger *slog.Logger,
) GameService {
	return &gameService{
		db:          db,
		gameRepo:    gameRepo,
		teamRepo:    teamRepo,
		standings:   standings,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// withTx runs fn inside a transaction when a db handle is present. Stub-backed
// tests construct the service without one and fn runs against the bare repos.
func (s *gameService) withTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if s.db == nil {
		return fn(nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		return err
	}
	return tx.Commit()
}

// validateTeamRefs fails fast when either referenced team is missing. Both
// lookups run in parallel.
func (s *gameService) validateTeamRefs(ctx context.Context, exec repositories.SQLExecutor, homeTeamID, visitorTeamID int) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, id := range []int{homeTeamID, visitorTeamID} {
		id := id
		g.Go(func() error {
			if _, err := s.teamRepo.GetByID(gCtx, exec, id); err != nil {
				if errors.Is(err, repositories.ErrTeamNotFound) {
					return fmt.Errorf("%w: team %d", ErrInvalidTeamRefs, id)
				}
				return fmt.Errorf("failed to load team %d: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *gameService) Create(ctx context.Context, input GameInput) (*models.Game, error) {
	game := &models.Game{
		Date:             input.Date,
		HomeTeamID:       input.HomeTeamID,
		VisitorTeamID:    input.VisitorTeamID,
		Start:            input.Start,
		End:              input.End,
		HomeTeamGoals:    input.HomeTeamGoals,
		VisitorTeamGoals: input.VisitorTeamGoals,
	}

	err := s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.validateTeamRefs(ctx, exec, input.HomeTeamID, input.VisitorTeamID); err != nil {
			return err
		}
		if err := s.gameRepo.Create(ctx, exec, game); err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}
		if game.Completed() {
			if err := s.standings.Apply(ctx, exec, game); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStandings(ctx)
	return game, nil
}

func (s *gameService) Edit(ctx context.Context, id int, input GameInput) (*models.Game, error) {
	updated := &models.Game{
		ID:               id,
		Date:             input.Date,
		HomeTeamID:       input.HomeTeamID,
		VisitorTeamID:    input.VisitorTeamID,
		Start:            input.Start,
		End:              input.End,
		HomeTeamGoals:    input.HomeTeamGoals,
		VisitorTeamGoals: input.VisitorTeamGoals,
	}

	err := s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.validateTeamRefs(ctx, exec, input.HomeTeamID, input.VisitorTeamID); err != nil {
			return err
		}

		before, err := s.gameRepo.GetByID(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to load game %d: %w", id, err)
		}

		if err := s.gameRepo.Update(ctx, exec, updated); err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to update game %d: %w", id, err)
		}

		updated.CreatedAt = before.CreatedAt
		return s.reconcileLedger(ctx, exec, before, updated)
	})
	if err != nil {
		return nil, err
	}

	s.notifyStandings(ctx)
	return updated, nil
}

// reconcileLedger picks the ledger operation for an edit based on which
// snapshots are completed. An incomplete game holds no standings contribution,
// so completing one applies, un-completing one reverses, and a change between
// two completed states reconciles by delta.
func (s *gameService) reconcileLedger(ctx context.Context, exec repositories.SQLExecutor, before, after *models.Game) error {
	switch {
	case before.Completed() && after.Completed():
		return s.standings.Reconcile(ctx, exec, before, after)
	case before.Completed():
		return s.standings.Reverse(ctx, exec, before)
	case after.Completed():
		return s.standings.Apply(ctx, exec, after)
	default:
		return nil
	}
}

func (s *gameService) Delete(ctx context.Context, id int) (*models.Game, error) {
	var deleted *models.Game

	err := s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		game, err := s.gameRepo.Delete(ctx, exec, id)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameGone
			}
			return fmt.Errorf("failed to delete game %d: %w", id, err)
		}
		deleted = game

		if deleted.Completed() {
			return s.standings.Reverse(ctx, exec, deleted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStandings(ctx)
	return deleted, nil
}

func (s *gameService) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", id, err)
	}
	return game, nil
}

func (s *gameService) List(ctx context.Context) ([]*models.Game, error) {
	games, err := s.gameRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// notifyStandings pushes the post-mutation table to the live feed. Best
// effort: a failed read only costs the broadcast.
func (s *gameService) notifyStandings(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	teams, err := s.teamRepo.ListStandings(ctx, nil)
	if err != nil {
		s.logger.Error("failed to load standings for broadcast", slog.Any("error", err))
		return
	}
	s.broadcaster.BroadcastStandings(teams)
}
