package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/CaioSouzaC1/futsal-api/repositories"
	"github.com/golang-jwt/jwt/v4"
)

const (
	accessTokenTTL    = 30 * time.Minute
	refreshTokenTTL   = 7 * 24 * time.Hour
	accessTokenLabel  = "30m"
	refreshTokenLabel = "7d"
)

// TokenClaims is the signed payload carried by both token types.
type TokenClaims struct {
	UserID int    `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// VerificationResult is the status-coded outcome of an access-token check.
//
//	200 — token valid; AccessToken echoes the original.
//	401 with AccessToken — token expired, a replacement was minted from the
//	      refresh token; the caller should retry with the new token.
//	401 without AccessToken — expired and no usable refresh token; the user
//	      must log in again.
//	500 — malformed token, bad signature or wrong declared type.
type VerificationResult struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	AccessToken string `json:"access_token,omitempty"`

	// UserID is the verified subject; set only on status 200.
	UserID int `json:"-"`
}

type TokenService interface {
	// MaybeGenerateTokens returns a raw access token for the user. On first
	// login it mints and stores an access+refresh pair; afterwards it returns
	// the latest stored token, transparently replaced when expired. If the
	// stored token is beyond recovery the raw stale string is returned and
	// the auth gate will force a re-login on its first use.
	MaybeGenerateTokens(ctx context.Context, userID int) (string, error)
	VerifyAccessToken(ctx context.Context, accessToken string) VerificationResult
	VerifyRefreshToken(refreshToken string) (*TokenClaims, error)
}

type tokenService struct {
	tokenRepo repositories.TokenRepository
	secret    []byte
	logger    *slog.Logger
}

func NewTokenService(tokenRepo repositories.TokenRepository, secret string, logger *slog.Logger) TokenService {
	return &tokenService{
		tokenRepo: tokenRepo,
		secret:    []byte(secret),
		logger:    logger,
	}
}

func (s *tokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// mint signs a fresh token of the given type and appends it to the store.
func (s *tokenService) mint(ctx context.Context, userID int, tokenType models.TokenType) (string, error) {
	ttl, label := accessTokenTTL, accessTokenLabel
	if tokenType == models.TokenTypeRefresh {
		ttl, label = refreshTokenTTL, refreshTokenLabel
	}

	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		Type:   string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	row := &models.Token{
		UserID:    userID,
		Token:     signed,
		ExpiresIn: label,
		Type:      tokenType,
	}
	if err := s.tokenRepo.Create(ctx, nil, row); err != nil {
		return "", fmt.Errorf("failed to store %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *tokenService) MaybeGenerateTokens(ctx context.Context, userID int) (string, error) {
	latest, err := s.tokenRepo.GetLatestByUserAndType(ctx, nil, userID, models.TokenTypeAccess)
	if err != nil {
		if !errors.Is(err, repositories.ErrTokenNotFound) {
			return "", fmt.Errorf("failed to look up access token: %w", err)
		}

		accessToken, mintErr := s.mint(ctx, userID, models.TokenTypeAccess)
		if mintErr != nil {
			return "", mintErr
		}
		if _, mintErr = s.mint(ctx, userID, models.TokenTypeRefresh); mintErr != nil {
			return "", mintErr
		}
		return accessToken, nil
	}

	result := s.VerifyAccessToken(ctx, latest.Token)
	if result.AccessToken != "" {
		// Either still valid (echoed back) or a freshly minted replacement.
		return result.AccessToken, nil
	}

	// Stale fallback: the stored token cannot be recovered. Returning it is a
	// deliberate choice, the auth gate rejects it and forces a re-login.
	return latest.Token, nil
}

func (s *tokenService) VerifyAccessToken(ctx context.Context, accessToken string) VerificationResult {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, s.keyFunc)
	if err == nil {
		if claims.Type == string(models.TokenTypeAccess) {
			return VerificationResult{
				Status:      http.StatusOK,
				Message:     "Valid access token",
				AccessToken: accessToken,
				UserID:      claims.UserID,
			}
		}
		return VerificationResult{Status: http.StatusInternalServerError, Message: "Invalid access token"}
	}

	if !errors.Is(err, jwt.ErrTokenExpired) {
		return VerificationResult{Status: http.StatusInternalServerError, Message: "Invalid access token"}
	}

	// Expired access token: recover the subject without verifying, then try
	// the latest stored refresh token exactly once.
	decoded := &TokenClaims{}
	if _, _, decodeErr := jwt.NewParser().ParseUnverified(accessToken, decoded); decodeErr != nil {
		return VerificationResult{Status: http.StatusInternalServerError, Message: "Invalid access token"}
	}

	stored, lookupErr := s.tokenRepo.GetLatestByUserAndType(ctx, nil, decoded.UserID, models.TokenTypeRefresh)
	if lookupErr != nil {
		if !errors.Is(lookupErr, repositories.ErrTokenNotFound) {
			s.logger.Error("refresh token lookup failed", slog.Int("user_id", decoded.UserID), slog.Any("error", lookupErr))
		}
		return VerificationResult{
			Status:  http.StatusUnauthorized,
			Message: "Expired access token, no refresh token found! Please login again!",
		}
	}

	if _, refreshErr := s.VerifyRefreshToken(stored.Token); refreshErr != nil {
		return VerificationResult{
			Status:  http.StatusUnauthorized,
			Message: "Expired access token, no refresh token found! Please login again!",
		}
	}

	newAccessToken, mintErr := s.mint(ctx, decoded.UserID, models.TokenTypeAccess)
	if mintErr != nil {
		s.logger.Error("failed to mint replacement access token", slog.Int("user_id", decoded.UserID), slog.Any("error", mintErr))
		return VerificationResult{Status: http.StatusInternalServerError, Message: "Invalid access token"}
	}

	return VerificationResult{
		Status:      http.StatusUnauthorized,
		Message:     "Expired access token, new access token generated!",
		AccessToken: newAccessToken,
	}
}

// VerifyRefreshToken is a pure signature/expiry/type check. Expired refresh
// tokens are terminal, there is no second-level refresh.
func (s *tokenService) VerifyRefreshToken(refreshToken string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, err := jwt.ParseWithClaims(refreshToken, claims, s.keyFunc); err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if claims.Type != string(models.TokenTypeRefresh) {
		return nil, errors.New("invalid refresh token: wrong token type")
	}
	return claims, nil
}
