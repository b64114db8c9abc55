package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/CaioSouzaC1/futsal-api/repositories"
	"github.com/CaioSouzaC1/futsal-api/storage"
)

type TeamService interface {
	Create(ctx context.Context, name string) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	ListStandings(ctx context.Context) ([]*models.Team, error)
	Rename(ctx context.Context, id int, name string) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	UploadCrest(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	gameRepo   repositories.GameRepository
	games      GameService
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	gameRepo repositories.GameRepository,
	games GameService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		games:      games,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *teamService) Create(ctx context.Context, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{Name: name}
	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", id, err)
	}
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for _, t := range teams {
		s.populateCrestURL(t)
	}
	return teams, nil
}

func (s *teamService) ListStandings(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListStandings(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	for _, t := range teams {
		s.populateCrestURL(t)
	}
	return teams, nil
}

func (s *teamService) Rename(ctx context.Context, id int, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	if err := s.teamRepo.UpdateName(ctx, nil, id, name); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		default:
			return nil, fmt.Errorf("failed to rename team %d: %w", id, err)
		}
	}
	return s.GetByID(ctx, id)
}

// Delete removes a team together with everything referencing it. Games are
// deleted through the game service so each one's standings contribution is
// reversed off the opposing team before the row goes away.
func (s *teamService) Delete(ctx context.Context, id int) error {
	games, err := s.gameRepo.ListByTeam(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to list games for team %d: %w", id, err)
	}
	for _, game := range games {
		if _, err := s.games.Delete(ctx, game.ID); err != nil && !errors.Is(err, ErrGameGone) {
			return fmt.Errorf("failed to delete game %d for team %d: %w", game.ID, id, err)
		}
	}

	if err := s.playerRepo.DeleteByTeam(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete players for team %d: %w", id, err)
	}

	if err := s.teamRepo.Delete(ctx, nil, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamGone
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return nil
}

func (s *teamService) UploadCrest(ctx context.Context, id int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrUploaderUnavailable
	}

	team, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("teams/%d/crest", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload crest for team %d: %w", id, err)
	}

	if err := s.teamRepo.UpdateCrestKey(ctx, nil, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist crest key for team %d: %w", id, err)
	}

	team.CrestKey = &result.Key
	s.populateCrestURL(team)
	return team, nil
}

func (s *teamService) populateCrestURL(team *models.Team) {
	if team == nil || team.CrestKey == nil || *team.CrestKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*team.CrestKey); url != "" {
		team.CrestURL = &url
	}
}
