package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sergkim13/users-API/internal/metrics"
	"github.com/sergkim13/users-API/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenDecoder      middleware.TokenDecoder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ユーザーディレクトリ
	UserService UserServiceInterface
	// 管理者操作（通常はUserServiceと同一インスタンス）
	AdminService AdminServiceInterface

	// 運用
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer
	HTTPMetrics   middleware.HTTPMetrics
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ルートは3つの層に分かれる:
//   - 公開層: /health, /metrics, /api/v1/login, /api/v1/logout（トークン不要）
//   - メンバー層: /api/v1/users/*（有効なトークンが必要）
//   - 管理者層: /api/v1/private/*（有効なトークン + is_adminが必要）
//
// 層の判定はディスパッチ前のミドルウェアで行い、失敗したリクエストは
// ハンドラーに到達しない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	adminHandler := NewAdminHandler(deps.AdminService)

	// --- 公開層 ---

	if deps.HealthChecker != nil {
		r.Get("/health", newHealthHandler(deps.HealthChecker))
	}
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Post("/api/v1/login", authHandler.Login)
	r.Get("/api/v1/logout", authHandler.Logout)

	// --- メンバー層 ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenDecoder))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Route("/api/v1/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Get("/current", userHandler.Current)
			r.Patch("/current", userHandler.UpdateCurrent)
		})
	})

	// --- 管理者層 ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAdminMiddleware(deps.TokenDecoder))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Route("/api/v1/private/users", func(r chi.Router) {
			r.Get("/", adminHandler.List)
			r.Post("/", adminHandler.Create)

			r.Route("/{pk}", func(r chi.Router) {
				r.Get("/", adminHandler.Detail)
				r.Patch("/", adminHandler.Update)
				r.Delete("/", adminHandler.Delete)
			})
		})
	})

	return r
}

// newHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
