package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/backend/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: 7, GitHubUsername: "octocat", DisplayName: "The Octocat"}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	s := NewJWTService("test-secret")

	token, err := s.GenerateToken(testUser())
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "octocat", claims.GitHubUsername)
	assert.Equal(t, "The Octocat", claims.DisplayName)
}

func TestJWTService_ExpiresAfter24Hours(t *testing.T) {
	s := NewJWTService("test-secret")

	t.Run("25時間前に発行されたトークンは拒否される", func(t *testing.T) {
		token, err := s.generateAt(testUser(), time.Now().Add(-25*time.Hour))
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.True(t, errors.Is(err, ErrForbidden), "expected forbidden, got %v", err)
	})

	t.Run("23時間前に発行されたトークンは有効", func(t *testing.T) {
		token, err := s.generateAt(testUser(), time.Now().Add(-23*time.Hour))
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.NoError(t, err)
	})
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	s := NewJWTService("test-secret")

	t.Run("別の鍵で署名されたトークン", func(t *testing.T) {
		token, err := NewJWTService("other-secret").GenerateToken(testUser())
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("HS512で署名されたトークン", func(t *testing.T) {
		claims := jwt.MapClaims{"id": 7, "exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("有効期限のないトークン", func(t *testing.T) {
		claims := jwt.MapClaims{"id": 7}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("形式が不正な文字列", func(t *testing.T) {
		_, err := s.ValidateToken("invalid.jwt.token")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Token abc", "Bearer ", "bearer abc"} {
		_, err := BearerToken(header)
		assert.ErrorIs(t, err, ErrUnauthenticated, "header %q", header)
	}
}
