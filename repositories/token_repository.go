package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/CaioSouzaC1/futsal-api/models"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenRepository is append-only: rows are inserted and read, never mutated.
type TokenRepository interface {
	Create(ctx context.Context, exec SQLExecutor, token *models.Token) error
	GetLatestByUserAndType(ctx context.Context, exec SQLExecutor, userID int, tokenType models.TokenType) (*models.Token, error)
}

type postgresTokenRepository struct {
	db *sql.DB
}

func NewPostgresTokenRepository(db *sql.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTokenRepository) Create(ctx context.Context, exec SQLExecutor, token *models.Token) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tokens (user_id, token, expires_in, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return executor.QueryRowContext(ctx, query,
		token.UserID, token.Token, token.ExpiresIn, token.Type,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *postgresTokenRepository) GetLatestByUserAndType(ctx context.Context, exec SQLExecutor, userID int, tokenType models.TokenType) (*models.Token, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, user_id, token, expires_in, type, created_at
		FROM tokens
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var t models.Token
	err := executor.QueryRowContext(ctx, query, userID, tokenType).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresIn, &t.Type, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}
