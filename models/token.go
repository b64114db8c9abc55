package models

import "time"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Token is an append-only credential row. Rows are never updated or deleted;
// the latest row of a type for a user (by created_at desc) is authoritative,
// and expiry is enforced by signature verification, not by row lifecycle.
type Token struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresIn string    `json:"expires_in" db:"expires_in"`
	Type      TokenType `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
