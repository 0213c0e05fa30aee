package routes

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtolk/amocrm-radicalmart/internal/leadlink"
	"github.com/webtolk/amocrm-radicalmart/internal/leadsync"
	pkgAuth "github.com/webtolk/amocrm-radicalmart/pkg/auth"
	"github.com/webtolk/amocrm-radicalmart/pkg/config"
	"github.com/webtolk/amocrm-radicalmart/pkg/logger"
	"github.com/webtolk/amocrm-radicalmart/pkg/metrics"
	"github.com/webtolk/amocrm-radicalmart/pkg/radicalmart"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubHandler struct{ calls int }

func (s *stubHandler) HandleEvent(context.Context, radicalmart.Event) (leadsync.Result, error) {
	s.calls++
	return leadsync.Result{Outcome: leadsync.OutcomeCreated}, nil
}

type stubGuard struct{}

func (stubGuard) CheckAndMarkProcessed(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}

func (stubGuard) Release(context.Context, string, uuid.UUID) error { return nil }

type stubLinks struct{}

func (stubLinks) Link(_ context.Context, orderID int64) (*leadlink.Link, error) {
	return &leadlink.Link{OrderID: orderID, LeadID: 9, URL: "https://a.amocrm.ru/leads/detail/9", Text: "AmoCRM lead #9"}, nil
}

func (s stubLinks) Render(ctx context.Context, orderID int64) (template.HTML, error) {
	link, _ := s.Link(ctx, orderID)
	return leadlink.RenderLink(*link)
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "dev"},
		JWT:     config.JWTConfig{Secret: "jwt-secret", Issuer: "wtamocrm", ExpirationMinutes: 10},
		Webhook: config.WebhookConfig{Secret: "hook-secret"},
		Integration: config.IntegrationConfig{
			AdminCORSOrigins: []string{"https://shop.example.com"},
		},
	}
}

func newTestRouter(t *testing.T, handler *stubHandler) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	metrics.NewSyncMetrics(reg).IncEvent("order.create", metrics.ResultSuccess)
	return NewRouter(cfg, logger.Nop(), Params{
		DB:       stubPinger{},
		Redis:    stubPinger{},
		Events:   handler,
		Guard:    stubGuard{},
		Links:    stubLinks{},
		Gatherer: reg,
	}), cfg
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t, &stubHandler{})
	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsRoute(t *testing.T) {
	router, _ := newTestRouter(t, &stubHandler{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wtamocrm_order_events_total")
}

func TestWebhookRoute(t *testing.T) {
	handler := &stubHandler{}
	router, cfg := newTestRouter(t, handler)
	payload := []byte(`{"type":"order.create","order":{"id":3}}`)
	mac := hmac.New(sha256.New, []byte(cfg.Webhook.Secret))
	mac.Write(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/radicalmart/events", bytes.NewReader(payload))
	req.Header.Set("X-RadicalMart-Signature", hex.EncodeToString(mac.Sum(nil)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, handler.calls)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t, &stubHandler{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/5/amocrm-lead", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesWithToken(t *testing.T) {
	router, cfg := newTestRouter(t, &stubHandler{})
	token, err := pkgAuth.MintAdminToken(cfg.JWT, time.Now(), pkgAuth.AdminTokenPayload{Subject: "admin-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/5/amocrm-lead/field", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "/leads/detail/9"))
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
