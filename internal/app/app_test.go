package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/kinenbi/internal/config"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:            "development",
		Port:           0,
		BaseURL:        "http://localhost:8080",
		TimeZone:       "Asia/Tokyo",
		TrustedProxies: []string{"127.0.0.0/8"},
		CORSOrigins:    []string{"http://localhost:3000"},
		Holidays:       config.HolidayConfig{CacheTTL: time.Hour},
		RateLimit:      config.RateLimitConfig{RPS: 100, Burst: 100},
	}
}

// newTestApp builds an App with Redis (miniredis) and no database. Only
// routes that stay off MariaDB are exercised here.
func newTestApp(t *testing.T, cfg *config.Config) (*App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	calc := datecalc.NewCalc(datecalc.FixedClock{At: time.Date(2019, 5, 1, 0, 5, 0, 0, time.FixedZone("JST", 9*3600))})
	a := New(cfg, nil, rdb, calc)
	a.RegisterRoutes()
	return a, mr
}

func request(a *App, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	a, mr := newTestApp(t, testConfig())

	rec := request(a, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Status != "ok" || body.Checks["redis"] != "ok" {
		t.Errorf("body = %+v", body)
	}

	mr.Close()
	rec = request(a, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status after redis loss = %d", rec.Code)
	}
}

func TestRootRedirectsToCalendar(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	rec := request(a, http.MethodGet, "/", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/calendar" {
		t.Errorf("got %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestErrorHandler_JSONForAPI(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	rec := request(a, http.MethodGet, "/api/v1/nothing-here", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON, got %q", rec.Body.String())
	}
	if body["error"] != "Not Found" {
		t.Errorf("body = %v", body)
	}

	rec = request(a, http.MethodGet, "/api/v1/calendar/2025/13", nil)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "month must be between 1 and 12") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestErrorHandler_HTMLForBrowsers(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	rec := request(a, http.MethodGet, "/no-such-page", map[string]string{"Accept": "text/html"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "<h1>404</h1>") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestEraAndTodayEndpoints(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	rec := request(a, http.MethodGet, "/api/v1/era?date=2019-05-01", nil)
	if !strings.Contains(rec.Body.String(), `"japanese":"令和元年5月1日"`) {
		t.Errorf("era body = %s", rec.Body.String())
	}

	rec = request(a, http.MethodGet, "/api/v1/today", nil)
	if !strings.Contains(rec.Body.String(), "2019-05-01 (水) 00:05（令和元年）") {
		t.Errorf("today body = %s", rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestRateLimitOnAPIOnly(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RPS: 0.001, Burst: 1}
	a, _ := newTestApp(t, cfg)

	if rec := request(a, http.MethodGet, "/api/v1/today", nil); rec.Code != http.StatusOK {
		t.Fatalf("first = %d", rec.Code)
	}
	if rec := request(a, http.MethodGet, "/api/v1/today", nil); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second = %d, want 429", rec.Code)
	}
	if rec := request(a, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz should not be limited, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	rec := request(a, http.MethodOptions, "/api/v1/anniversaries", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	request(a, http.MethodGet, "/api/v1/today", nil)

	rec := request(a, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `route="/api/v1/today"`) {
		t.Error("request counter not exported")
	}
}

func TestLoadHolidayFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "holidays.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"date":"2025-01-01","name":"元日"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "syukujitsu.csv")
	if err := os.WriteFile(csvPath, []byte("日付,名称\n2025/1/13,成人の日\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	list, err := LoadHolidayFile(jsonPath)
	if err != nil || len(list) != 1 || list[0].Name != "元日" {
		t.Errorf("json: %+v, %v", list, err)
	}
	list, err = LoadHolidayFile(csvPath)
	if err != nil || len(list) != 1 || list[0].Date != "2025-01-13" {
		t.Errorf("csv: %+v, %v", list, err)
	}
	if _, err := LoadHolidayFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSeedHolidays_NoPathIsNoop(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	if err := a.SeedHolidays(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
