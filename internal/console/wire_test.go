package console

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-console/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServiceName:        "catalog-console-test",
		Environment:        "test",
		CatalogBaseURL:     "http://127.0.0.1:1",
		CatalogTimeout:     time.Second,
		LoginExpiresInMins: 30,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: time.Second,
		SessionCookieName:  "console_sid",
		LoginRateLimit:     10,
		LoginRateWindow:    time.Minute,
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestInitializeServer_WithoutRedisOrKafka(t *testing.T) {
	reg := prometheus.NewRegistry()

	srv, err := InitializeServer(testConfig(), nil, reg, nil)
	require.NoError(t, err)
	require.NotNil(t, srv)

	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `console_requests_total{method="GET",route="health-live",status="200"} 1`)
}

func TestInitializeServer_AnonymousLoginPage(t *testing.T) {
	srv, err := InitializeServer(testConfig(), nil, prometheus.NewRegistry(), nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "emilyspass")
	assert.NotEmpty(t, rec.Result().Cookies())
}
