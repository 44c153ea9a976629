// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sergkim13/users-API/internal/model"
	"github.com/sergkim13/users-API/internal/token"
)

// TokenCookieName はセッショントークンを保持するCookieの名前。
const TokenCookieName = "jwt_token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// payloadContextKey はリクエストコンテキストにセッションペイロードを格納するためのキー。
var payloadContextKey = contextKey("session_payload")

// TokenDecoder はトークン検証に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenDecoder interface {
	Decode(tokenString string) (*token.Payload, error)
}

// NewAuthMiddleware はCookieからセッショントークンを読み取り検証するミドルウェアを返す。
// メンバー層のルートに適用する。
// 検証に成功した場合、デコード済みペイロードをリクエストコンテキストに注入する。
// Cookie欠落・署名不正・期限切れはいずれも同じ401レスポンスになり、
// どの検証で失敗したかを外部に漏らさない。
func NewAuthMiddleware(decoder TokenDecoder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := authenticate(r, decoder)
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
				return
			}

			ctx := ContextWithPayload(r.Context(), payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewAdminMiddleware はトークン検証に加えてis_adminを要求するミドルウェアを返す。
// 管理者層のルートに適用する。
// 権限チェックは認証成功後にのみ評価される。
// 有効なトークンだが権限が不足している場合は403を返す。
func NewAdminMiddleware(decoder TokenDecoder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. 認証（メンバー層と同じ検証）
			payload, ok := authenticate(r, decoder)
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
				return
			}

			// 2. 認可（認証が成功した場合のみ評価する）
			if !payload.IsAdmin {
				WriteErrorResponse(w, http.StatusForbidden, model.NewNotAuthorizedError())
				return
			}

			ctx := ContextWithPayload(r.Context(), payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate はリクエストのCookieからトークンを取り出して検証する。
func authenticate(r *http.Request, decoder TokenDecoder) (*token.Payload, bool) {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	payload, err := decoder.Decode(cookie.Value)
	if err != nil {
		return nil, false
	}
	return payload, true
}

// PayloadFromContext はリクエストコンテキストからセッションペイロードを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func PayloadFromContext(ctx context.Context) (*token.Payload, error) {
	payload, ok := ctx.Value(payloadContextKey).(*token.Payload)
	if !ok || payload == nil {
		return nil, fmt.Errorf("session payload not found in context")
	}
	return payload, nil
}

// ContextWithPayload はコンテキストにセッションペイロードを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPayload(ctx context.Context, payload *token.Payload) context.Context {
	return context.WithValue(ctx, payloadContextKey, payload)
}
