// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeNotAuthenticated   = "NOT_AUTHENTICATED"
	ErrCodeNotAuthorized      = "NOT_AUTHORIZED"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeEmailExists        = "EMAIL_EXISTS"
	ErrCodeCityNotFound       = "CITY_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewNotAuthenticatedError は未認証エラーを生成する。
// トークン欠落・署名不正・期限切れのいずれでも同じメッセージを返し、
// どの検証で失敗したかを外部に漏らさない。
func NewNotAuthenticatedError() *APIError {
	return &APIError{
		Code:    ErrCodeNotAuthenticated,
		Message: "認証されていません。",
	}
}

// NewNotAuthorizedError は権限不足エラーを生成する。
func NewNotAuthorizedError() *APIError {
	return &APIError{
		Code:    ErrCodeNotAuthorized,
		Message: "この操作を行う権限がありません。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID int64) *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: fmt.Sprintf("指定されたユーザーが見つかりません: %d", userID),
	}
}

// NewEmailExistsError はメールアドレス重複エラーを生成する。
func NewEmailExistsError(email string) *APIError {
	return &APIError{
		Code:    ErrCodeEmailExists,
		Message: fmt.Sprintf("このメールアドレスは既に使用されています: %s", email),
	}
}

// NewCityNotFoundError は存在しない都市を参照した場合のエラーを生成する。
func NewCityNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeCityNotFound,
		Message: "指定された都市が見つかりません。",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// 未登録ユーザーとパスワード不一致で同じメッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Message: "ログインIDまたはパスワードが正しくありません。",
	}
}

// NewValidationError は入力値検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("入力値が不正です: %s", reason),
	}
}
