package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Team, error)
	ListStandings(ctx context.Context, exec SQLExecutor) ([]*models.Team, error)
	UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error
	UpdateCrestKey(ctx context.Context, exec SQLExecutor, id int, crestKey *string) error
	ApplyDelta(ctx context.Context, exec SQLExecutor, id int, delta models.TeamCounterDelta) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (name)
		VALUES ($1)
		RETURNING id, points, goals_count, games_count, created_at`

	err := executor.QueryRowContext(ctx, query, team.Name).Scan(
		&team.ID, &team.Points, &team.GoalsCount, &team.GamesCount, &team.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.Points, &t.GoalsCount, &t.GamesCount, &t.CrestKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, points, goals_count, games_count, crest_key, created_at
		FROM teams
		WHERE id = $1`
	return r.scanTeam(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Team, error) {
	return r.list(ctx, exec, "ORDER BY id ASC")
}

// ListStandings returns all teams in classification order.
func (r *postgresTeamRepository) ListStandings(ctx context.Context, exec SQLExecutor) ([]*models.Team, error) {
	return r.list(ctx, exec, "ORDER BY points DESC, goals_count DESC, name ASC")
}

func (r *postgresTeamRepository) list(ctx context.Context, exec SQLExecutor, orderBy string) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := fmt.Sprintf(`
		SELECT id, name, points, goals_count, games_count, crest_key, created_at
		FROM teams
		%s`, orderBy)

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, errScan := r.scanTeam(rows)
		if errScan != nil {
			return nil, errScan
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE teams SET name = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, name, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrTeamNameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateCrestKey(ctx context.Context, exec SQLExecutor, id int, crestKey *string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE teams SET crest_key = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, crestKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// ApplyDelta adds a counter delta in a single statement so concurrent ledger
// mutations against the same team row cannot lose updates.
func (r *postgresTeamRepository) ApplyDelta(ctx context.Context, exec SQLExecutor, id int, delta models.TeamCounterDelta) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE teams
		SET points = points + $1,
		    goals_count = goals_count + $2,
		    games_count = games_count + $3
		WHERE id = $4`
	result, err := executor.ExecContext(ctx, query, delta.Points, delta.Goals, delta.Games, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM teams WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
