// Package services はビジネスロジックを扱います。
package services

import "errors"

var (
	// ErrUnauthenticated は認証情報が無い、または形式が不正な場合のエラーです。
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden は署名不正、アルゴリズム違い、期限切れの認証情報に対するエラーです。
	ErrForbidden = errors.New("invalid or expired token")
	// ErrAuthFailed はOAuthプロバイダーが認可コードを拒否した場合のエラーです。
	ErrAuthFailed = errors.New("authentication with provider failed")
)

// ValidationError は入力値の検証エラーです。Field は空の場合があります。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
