package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_ExposesRecordedMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(registry)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)
	c.RecordRequestDuration(10 * time.Millisecond)
	c.RecordCacheHit("user-detail")
	c.RecordCacheMiss("user-list")

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	expectedLines := []string{
		`usersapi_http_status_total{status_code="200"} 2`,
		`usersapi_http_status_total{status_code="404"} 1`,
		`usersapi_cache_hits_total{key_family="user-detail"} 1`,
		`usersapi_cache_misses_total{key_family="user-list"} 1`,
		`usersapi_request_duration_seconds_count 1`,
	}
	for _, line := range expectedLines {
		if !strings.Contains(body, line) {
			t.Errorf("スクレイプ出力に %q が含まれていません", line)
		}
	}
}

func TestNewCollector_RegistersWithoutConflict(t *testing.T) {
	// 同一レジストリへの二重登録はpanicするため、レジストリごとに生成する。
	NewCollector(prometheus.NewRegistry())
	NewCollector(prometheus.NewRegistry())
}
