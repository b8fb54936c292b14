package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-task-tracker/backend/internal/models"
)

// TokenTTL は発行したトークンの有効期間です。
const TokenTTL = 24 * time.Hour

// tokenClaims はトークンに載せるクレームです。
type tokenClaims struct {
	models.JWTClaims
	jwt.RegisteredClaims
}

// JWTService はJWTトークンの生成と検証を扱います。
type JWTService struct {
	secret []byte
}

// NewJWTService は新しいJWTServiceを作成します。
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// GenerateToken はユーザーのJWTトークンを生成します。
func (s *JWTService) GenerateToken(user *models.User) (string, error) {
	return s.generateAt(user, time.Now())
}

func (s *JWTService) generateAt(user *models.User, issuedAt time.Time) (string, error) {
	claims := &tokenClaims{
		JWTClaims: models.JWTClaims{
			UserID:         user.ID,
			GitHubUsername: user.GitHubUsername,
			DisplayName:    user.DisplayName,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はJWTトークンを検証し、クレームを返します。
// 検証に失敗した場合は ErrForbidden をラップしたエラーを返します。
func (s *JWTService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrForbidden
	}
	return &claims.JWTClaims, nil
}

// BearerToken は Authorization ヘッダーからトークンを取り出します。
// ヘッダーが空、または Bearer 形式でない場合は ErrUnauthenticated を返します。
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrUnauthenticated
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrUnauthenticated
	}
	return token, nil
}
