package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/CaioSouzaC1/futsal-api/repositories"
)

type PlayerInput struct {
	Name   string
	Number int
	TeamID int
}

type PlayerService interface {
	Create(ctx context.Context, input PlayerInput) (*models.Player, error)
	Edit(ctx context.Context, id int, input PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
	}
}

// validate checks the team reference and shirt-number uniqueness within the
// team. ignoreID skips the player being edited so keeping one's own number is
// not a conflict.
func (s *playerService) validate(ctx context.Context, input PlayerInput, ignoreID int) error {
	if strings.TrimSpace(input.Name) == "" || input.Number <= 0 {
		return ErrValidationFailed
	}

	if _, err := s.teamRepo.GetByID(ctx, nil, input.TeamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return fmt.Errorf("%w: team %d", ErrInvalidTeamRefs, input.TeamID)
		}
		return fmt.Errorf("failed to load team %d: %w", input.TeamID, err)
	}

	existing, err := s.playerRepo.GetByTeamAndNumber(ctx, nil, input.TeamID, input.Number)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check shirt number: %w", err)
	}
	if existing.ID != ignoreID {
		return ErrShirtNumberTaken
	}
	return nil
}

func (s *playerService) Create(ctx context.Context, input PlayerInput) (*models.Player, error) {
	if err := s.validate(ctx, input, 0); err != nil {
		return nil, err
	}

	player := &models.Player{
		Name:   input.Name,
		Number: input.Number,
		TeamID: input.TeamID,
	}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTeamInvalid) {
			return nil, ErrInvalidTeamRefs
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) Edit(ctx context.Context, id int, input PlayerInput) (*models.Player, error) {
	if err := s.validate(ctx, input, id); err != nil {
		return nil, err
	}

	player := &models.Player{
		ID:     id,
		Name:   input.Name,
		Number: input.Number,
		TeamID: input.TeamID,
	}
	if err := s.playerRepo.Update(ctx, nil, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerTeamInvalid):
			return nil, ErrInvalidTeamRefs
		default:
			return nil, fmt.Errorf("failed to update player %d: %w", id, err)
		}
	}
	return s.GetByID(ctx, id)
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) List(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}
