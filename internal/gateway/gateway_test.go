package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderhub/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// proxyRecorder implements http.CloseNotifier, which httputil.ReverseProxy
// requires from the response writer when the request context has no Done
// channel (as with httptest.NewRequest).
type proxyRecorder struct {
	*httptest.ResponseRecorder
}

func (proxyRecorder) CloseNotify() <-chan bool { return make(chan bool) }

func newRecorder() proxyRecorder {
	return proxyRecorder{httptest.NewRecorder()}
}

func stampingBackend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backend", name)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testServices(t *testing.T) (config.ServicesConfig, map[string]*httptest.Server) {
	t.Helper()
	backends := map[string]*httptest.Server{
		"partner": stampingBackend(t, "partner"),
		"catalog": stampingBackend(t, "catalog"),
		"orders":  stampingBackend(t, "orders"),
		"billing": stampingBackend(t, "billing"),
		"notify":  stampingBackend(t, "notify"),
	}
	return config.ServicesConfig{
		PartnerURL: backends["partner"].URL,
		CatalogURL: backends["catalog"].URL,
		OrdersURL:  backends["orders"].URL,
		BillingURL: backends["billing"].URL,
		NotifyURL:  backends["notify"].URL,
	}, backends
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg, _ := testServices(t)
	gw, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	engine := gin.New()
	gw.RegisterRoutes(engine)
	return engine
}

func TestGatewayRoutesByPrefix(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		path    string
		backend string
	}{
		{"/api/v1/auth/login", "partner"},
		{"/api/v1/users", "partner"},
		{"/api/v1/suppliers/abc", "partner"},
		{"/api/v1/nodes/abc/tree", "partner"},
		{"/api/v1/products", "catalog"},
		{"/api/v1/shares/abc/approve", "catalog"},
		{"/api/v1/orders/abc/submit", "orders"},
		{"/api/v1/acceptances/abc/photos", "orders"},
		{"/api/v1/billing/rate-configs", "billing"},
		{"/api/v1/notifications/unread-count", "notify"},
	}

	for _, tt := range tests {
		w := newRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

		assert.Equal(t, http.StatusOK, w.Code, tt.path)
		assert.Equal(t, tt.backend, w.Header().Get("X-Backend"), tt.path)
	}
}

func TestGatewayUnknownPrefixIs404(t *testing.T) {
	engine := newTestEngine(t)

	w := newRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/warehouses", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGatewayNonAPIPathIs404(t *testing.T) {
	engine := newTestEngine(t)

	w := newRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGatewayDeadBackendIs502(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	cfg, _ := testServices(t)
	cfg.OrdersURL = dead.URL

	gw, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	engine := gin.New()
	gw.RegisterRoutes(engine)

	w := newRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "SERVICE_UNAVAILABLE")
}

func TestGatewayRejectsInvalidServiceURL(t *testing.T) {
	cfg, _ := testServices(t)
	cfg.BillingURL = "http://bad url with spaces"

	_, err := New(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestGatewayHealthzDegradedWhenBackendDown(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(healthy.Close)

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	cfg := config.ServicesConfig{
		PartnerURL: healthy.URL,
		CatalogURL: healthy.URL,
		OrdersURL:  dead.URL,
		BillingURL: healthy.URL,
		NotifyURL:  healthy.URL,
	}

	gw, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	engine := gin.New()
	gw.RegisterRoutes(engine)

	w := newRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), `"service":"orders"`)
}
