package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/CaioSouzaC1/futsal-api/services"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// Authenticate gates protected routes behind the token verifier. A valid
// token threads the user id into the request context. When the verifier
// mints a replacement for an expired token, the 401 body carries it so the
// client can retry without logging in again.
func Authenticate(tokens services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthResponse(w, http.StatusUnauthorized, services.VerificationResult{
					Status:  http.StatusUnauthorized,
					Message: "Access token is required",
				})
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			result := tokens.VerifyAccessToken(r.Context(), raw)
			if result.Status != http.StatusOK {
				writeAuthResponse(w, result.Status, result)
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, result.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthResponse(w http.ResponseWriter, status int, result services.VerificationResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
