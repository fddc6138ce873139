package app

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:          "127.0.0.1:0",
			JSONSizeLimit: 4096,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Auth: AuthConfig{
			ValidityWindow: 24 * time.Hour,
			Iterations:     100000,
			Workers:        2,
			QueueSize:      8,
		},
	}
}

func newTestApp(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	a, err := New(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path, bearer string, body any) *http.Response {
	t.Helper()

	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()

	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestApp_HealthAndReadiness(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, testConfig())

	resp, body := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok\n", body)
	require.Len(t, resp.Header.Get(HeaderRequestID), 26)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, _ = get(t, srv, "/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_ReadinessRequiresDB(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Readiness.RequireDB = true
	srv := newTestApp(t, cfg)

	resp, _ := get(t, srv, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestApp_InMemoryAuthFlowAndMetrics(t *testing.T) {
	t.Parallel()

	srv := newTestApp(t, testConfig())

	sum := sha256.Sum256([]byte("hunter2"))
	hash := base64.StdEncoding.EncodeToString(sum[:])

	resp := postJSON(t, srv, "/register", "", map[string]string{
		"first_name": "Grace", "last_name": "Hopper", "email": "grace@example.com", "client_hash": hash,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv, "/login", "", map[string]string{"email": "grace@example.com", "client_hash": hash})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var lr struct {
		AccountID string `json:"account_id"`
		AuthToken string `json:"auth_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
	require.Len(t, lr.AuthToken, 44)

	resp, body := get(t, srv, "/nope")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, body, `"cause":"not-found"`)

	resp, body = get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, want := range []string{
		`vrme_http_requests_total{code="201",method="POST",route="/register"} 1`,
		`vrme_http_requests_total{code="404",method="GET",route="unmatched"} 1`,
		`vrme_auth_operations_total{op="auth.Register",outcome="ok"} 1`,
		`vrme_auth_operations_total{op="auth.Login",outcome="ok"} 1`,
		"vrme_auth_hash_duration_seconds_count",
		"vrme_workpool_workers 2",
		"go_goroutines",
	} {
		require.True(t, strings.Contains(body, want), "missing %q in metrics output", want)
	}
}

func TestNew_RejectsBadDatabaseURL(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.DB.URL = "postgres://%zz"
	_, err := New(context.Background(), cfg, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.Error(t, err)
}
