package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sergkim13/users-API/internal/middleware"
	"github.com/sergkim13/users-API/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は資格情報を検証し、ユーザーと署名済みセッショントークンを返す。
	Login(ctx context.Context, login, password string) (*model.User, string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain string
	CookieSecure bool
	TokenMaxAge  int // トークンCookieの有効期間（秒）
}

// AuthHandler はログイン/ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// Login は資格情報を検証してセッショントークンCookieを設定する。
// POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.Login == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("loginとpasswordは必須です"))
		return
	}

	user, sessionToken, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// セッショントークンをHTTP Only Cookieに設定する。
	// トークンはサーバー側に保存しない。
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    sessionToken,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.TokenMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSONResponse(w, http.StatusOK, toCurrentUserResponse(user))
}

// Logout はセッショントークンCookieを破棄する。
// GET /api/v1/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSONResponse(w, http.StatusOK, map[string]string{
		"message": "ログアウトしました。",
	})
}
