package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/sergkim13/users-API/internal/token"
)

func newTestRateLimiter(t *testing.T, config RateLimiterConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(config)
	t.Cleanup(rl.Stop)
	return rl
}

func authedRequest(userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	ctx := ContextWithPayload(req.Context(), &token.Payload{UserID: userID})
	return req.WithContext(ctx)
}

func TestNewRateLimiterConfig(t *testing.T) {
	cfg := NewRateLimiterConfig(120)
	if cfg.Rate != rate.Limit(2.0) {
		t.Errorf("Rate = %v, want 2.0", cfg.Rate)
	}
	if cfg.Burst != 120 {
		t.Errorf("Burst = %d, want 120", cfg.Burst)
	}

	// 0以下はデフォルト値に置き換える
	cfg = NewRateLimiterConfig(0)
	if cfg.Burst != 120 {
		t.Errorf("Burst = %d, want 120", cfg.Burst)
	}
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		Rate:            rate.Limit(1),
		Burst:           3,
		CleanupInterval: time.Minute,
	})

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(42))
		if rec.Code != http.StatusOK {
			t.Fatalf("リクエスト%d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		Rate:            rate.Limit(0.01), // 補充をほぼ止める
		Burst:           2,
		CleanupInterval: time.Minute,
	})

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(42))
		if rec.Code != http.StatusOK {
			t.Fatalf("リクエスト%d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(42))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-Afterヘッダーが設定されていません")
	}
}

func TestRateLimiter_IsolatesUsers(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		Rate:            rate.Limit(0.01),
		Burst:           1,
		CleanupInterval: time.Minute,
	})

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// ユーザー1がバーストを使い切る
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(1))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("ユーザー1の2回目: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// 別のユーザーは影響を受けない
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(2))
	if rec.Code != http.StatusOK {
		t.Errorf("ユーザー2: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRateLimiter_RequiresAuthenticatedContext(t *testing.T) {
	rl := newTestRateLimiter(t, NewRateLimiterConfig(120))

	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("未認証のリクエストがハンドラーに到達しました")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
