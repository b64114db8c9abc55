package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/CaioSouzaC1/futsal-api/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTokenFixture() (TokenService, *stubTokenRepo) {
	tokenRepo := newStubTokenRepo()
	return NewTokenService(tokenRepo, testSecret, testLogger()), tokenRepo
}

// signTestToken signs a token directly, bypassing the service, so tests can
// craft expired or mistyped tokens.
func signTestToken(t *testing.T, secret string, userID int, tokenType models.TokenType, expiresAt time.Time) string {
	t.Helper()

	claims := TokenClaims{
		UserID: userID,
		Type:   string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestMaybeGenerateTokensBootstrapsPair(t *testing.T) {
	t.Parallel()

	service, tokenRepo := newTokenFixture()

	accessToken, err := service.MaybeGenerateTokens(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)

	assert.Equal(t, 1, tokenRepo.countByType(models.TokenTypeAccess))
	assert.Equal(t, 1, tokenRepo.countByType(models.TokenTypeRefresh))

	result := service.VerifyAccessToken(context.Background(), accessToken)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, 7, result.UserID)
	assert.Equal(t, accessToken, result.AccessToken)
}

func TestMaybeGenerateTokensReturnsValidStoredToken(t *testing.T) {
	t.Parallel()

	service, tokenRepo := newTokenFixture()

	first, err := service.MaybeGenerateTokens(context.Background(), 7)
	require.NoError(t, err)

	second, err := service.MaybeGenerateTokens(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, tokenRepo.countByType(models.TokenTypeAccess))
}

func TestMaybeGenerateTokensReplacesExpiredToken(t *testing.T) {
	t.Parallel()

	service, tokenRepo := newTokenFixture()

	expired := signTestToken(t, testSecret, 7, models.TokenTypeAccess, time.Now().Add(-time.Minute))
	refresh := signTestToken(t, testSecret, 7, models.TokenTypeRefresh, time.Now().Add(time.Hour))
	require.NoError(t, tokenRepo.Create(context.Background(), nil, &models.Token{UserID: 7, Token: expired, ExpiresIn: "30m", Type: models.TokenTypeAccess}))
	require.NoError(t, tokenRepo.Create(context.Background(), nil, &models.Token{UserID: 7, Token: refresh, ExpiresIn: "7d", Type: models.TokenTypeRefresh}))

	accessToken, err := service.MaybeGenerateTokens(context.Background(), 7)
	require.NoError(t, err)
	require.NotEqual(t, expired, accessToken)

	result := service.VerifyAccessToken(context.Background(), accessToken)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, 7, result.UserID)
}

func TestMaybeGenerateTokensStaleFallback(t *testing.T) {
	t.Parallel()

	service, tokenRepo := newTokenFixture()

	// Expired access token with no stored refresh token: the stale raw token
	// comes back and its first authenticated use forces a re-login.
	expired := signTestToken(t, testSecret, 7, models.TokenTypeAccess, time.Now().Add(-time.Minute))
	require.NoError(t, tokenRepo.Create(context.Background(), nil, &models.Token{UserID: 7, Token: expired, ExpiresIn: "30m", Type: models.TokenTypeAccess}))

	accessToken, err := service.MaybeGenerateTokens(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, expired, accessToken)

	result := service.VerifyAccessToken(context.Background(), accessToken)
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	assert.Empty(t, result.AccessToken)
}

func TestVerifyAccessTokenExpiredWithRefresh(t *testing.T) {
	t.Parallel()

	service, tokenRepo := newTokenFixture()

	expired := signTestToken(t, testSecret, 3, models.TokenTypeAccess, time.Now().Add(-time.Minute))
	refresh := signTestToken(t, testSecret, 3, models.TokenTypeRefresh, time.Now().Add(time.Hour))
	require.NoError(t, tokenRepo.Create(context.Background(), nil, &models.Token{UserID: 3, Token: refresh, ExpiresIn: "7d", Type: models.TokenTypeRefresh}))

	result := service.VerifyAccessToken(context.Background(), expired)
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	assert.Equal(t, "Expired access token, new access token generated!", result.Message)
	require.NotEmpty(t, result.AccessToken)
	assert.NotEqual(t, expired, result.AccessToken)
	assert.Zero(t, result.UserID)

	// The replacement is stored and immediately usable.
	assert.Equal(t, 1, tokenRepo.countByType(models.TokenTypeAccess))
	retry := service.VerifyAccessToken(context.Background(), result.AccessToken)
	assert.Equal(t, http.StatusOK, retry.Status)
	assert.Equal(t, 3, retry.UserID)
}

func TestVerifyAccessTokenExpiredWithoutRefresh(t *testing.T) {
	t.Parallel()

	service, _ := newTokenFixture()

	expired := signTestToken(t, testSecret, 3, models.TokenTypeAccess, time.Now().Add(-time.Minute))

	result := service.VerifyAccessToken(context.Background(), expired)
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	assert.Equal(t, "Expired access token, no refresh token found! Please login again!", result.Message)
	assert.Empty(t, result.AccessToken)
}

func TestVerifyAccessTokenExpiredRefreshToken(t *testing.T) {
	t.Parallel()

	service, tokenRepo := newTokenFixture()

	expiredAccess := signTestToken(t, testSecret, 3, models.TokenTypeAccess, time.Now().Add(-time.Minute))
	expiredRefresh := signTestToken(t, testSecret, 3, models.TokenTypeRefresh, time.Now().Add(-time.Minute))
	require.NoError(t, tokenRepo.Create(context.Background(), nil, &models.Token{UserID: 3, Token: expiredRefresh, ExpiresIn: "7d", Type: models.TokenTypeRefresh}))

	result := service.VerifyAccessToken(context.Background(), expiredAccess)
	assert.Equal(t, http.StatusUnauthorized, result.Status)
	assert.Empty(t, result.AccessToken)
}

func TestVerifyAccessTokenMalformed(t *testing.T) {
	t.Parallel()

	service, _ := newTokenFixture()

	result := service.VerifyAccessToken(context.Background(), "not-a-jwt")
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Empty(t, result.AccessToken)
}

func TestVerifyAccessTokenWrongSignature(t *testing.T) {
	t.Parallel()

	service, _ := newTokenFixture()

	forged := signTestToken(t, "other-secret", 3, models.TokenTypeAccess, time.Now().Add(time.Hour))

	result := service.VerifyAccessToken(context.Background(), forged)
	assert.Equal(t, http.StatusInternalServerError, result.Status)
}

func TestVerifyAccessTokenRejectsRefreshToken(t *testing.T) {
	t.Parallel()

	service, _ := newTokenFixture()

	refresh := signTestToken(t, testSecret, 3, models.TokenTypeRefresh, time.Now().Add(time.Hour))

	result := service.VerifyAccessToken(context.Background(), refresh)
	assert.Equal(t, http.StatusInternalServerError, result.Status)
}

func TestVerifyRefreshToken(t *testing.T) {
	t.Parallel()

	service, _ := newTokenFixture()

	refresh := signTestToken(t, testSecret, 5, models.TokenTypeRefresh, time.Now().Add(time.Hour))
	claims, err := service.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)

	access := signTestToken(t, testSecret, 5, models.TokenTypeAccess, time.Now().Add(time.Hour))
	_, err = service.VerifyRefreshToken(access)
	assert.Error(t, err)

	expired := signTestToken(t, testSecret, 5, models.TokenTypeRefresh, time.Now().Add(-time.Minute))
	_, err = service.VerifyRefreshToken(expired)
	assert.Error(t, err)
}
