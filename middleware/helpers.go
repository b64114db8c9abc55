package middleware

import (
	"context"
	"errors"
)

// GetUserIDFromContext extracts the authenticated user id placed there by
// Authenticate.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	if !ok || userID <= 0 {
		return 0, errors.New("user id not found in context")
	}
	return userID, nil
}
