package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameTeamInvalid = errors.New("game references an invalid team")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Game, error)
	ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Game, error)
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Delete(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (date, home_team_id, visitor_team_id, start_time, end_time, home_team_goals, visitor_team_goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		game.Date,
		game.HomeTeamID,
		game.VisitorTeamID,
		game.Start,
		game.End,
		game.HomeTeamGoals,
		game.VisitorTeamGoals,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrGameTeamInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGameRepository) scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(
		&g.ID, &g.Date, &g.HomeTeamID, &g.VisitorTeamID,
		&g.Start, &g.End, &g.HomeTeamGoals, &g.VisitorTeamGoals, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

const gameColumns = `id, date, home_team_id, visitor_team_id, start_time, end_time, home_team_goals, visitor_team_goals, created_at`

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return r.scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY date ASC, id ASC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresGameRepository) ListByTeam(ctx context.Context, exec SQLExecutor, teamID int) ([]*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gameColumns + ` FROM games WHERE home_team_id = $1 OR visitor_team_id = $1 ORDER BY id ASC`
	rows, err := executor.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresGameRepository) collect(rows *sql.Rows) ([]*models.Game, error) {
	games := make([]*models.Game, 0)
	for rows.Next() {
		g, err := r.scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games
		SET date = $1, home_team_id = $2, visitor_team_id = $3,
		    start_time = $4, end_time = $5, home_team_goals = $6, visitor_team_goals = $7
		WHERE id = $8`
	result, err := executor.ExecContext(ctx, query,
		game.Date,
		game.HomeTeamID,
		game.VisitorTeamID,
		game.Start,
		game.End,
		game.HomeTeamGoals,
		game.VisitorTeamGoals,
		game.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrGameTeamInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// Delete removes the row and returns the deleted snapshot, which the caller
// needs to reverse the game's standings contribution.
func (r *postgresGameRepository) Delete(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `DELETE FROM games WHERE id = $1 RETURNING ` + gameColumns
	return r.scanGame(executor.QueryRowContext(ctx, query, id))
}
