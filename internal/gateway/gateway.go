// Package gateway implements the edge reverse proxy. It terminates
// cross-cutting middleware (request IDs, CORS, rate limiting, JWT
// validation) and forwards requests to the owning service, so the
// backends never face the public network directly.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/orderhub/backend/internal/infrastructure/config"
	"github.com/orderhub/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Route maps an /api/v1 path prefix to a backend service
type Route struct {
	Prefix  string
	Service string
	Target  *url.URL
}

// Gateway proxies API requests to the backend services
type Gateway struct {
	routes []Route
	health *http.Client
	logger *zap.Logger
}

// New builds a Gateway from the configured service URLs
func New(cfg config.ServicesConfig, logger *zap.Logger) (*Gateway, error) {
	bindings := []struct {
		prefix  string
		service string
		rawURL  string
	}{
		{"/api/v1/auth", "partner", cfg.PartnerURL},
		{"/api/v1/users", "partner", cfg.PartnerURL},
		{"/api/v1/suppliers", "partner", cfg.PartnerURL},
		{"/api/v1/nodes", "partner", cfg.PartnerURL},
		{"/api/v1/products", "catalog", cfg.CatalogURL},
		{"/api/v1/shares", "catalog", cfg.CatalogURL},
		{"/api/v1/orders", "orders", cfg.OrdersURL},
		{"/api/v1/acceptances", "orders", cfg.OrdersURL},
		{"/api/v1/billing", "billing", cfg.BillingURL},
		{"/api/v1/notifications", "notify", cfg.NotifyURL},
	}

	routes := make([]Route, 0, len(bindings))
	for _, b := range bindings {
		target, err := url.Parse(b.rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid URL for %s service: %w", b.service, err)
		}
		routes = append(routes, Route{Prefix: b.prefix, Service: b.service, Target: target})
	}

	return &Gateway{
		routes: routes,
		health: &http.Client{Timeout: 2 * time.Second},
		logger: logger,
	}, nil
}

// route returns the backend owning the path, longest prefix first
func (g *Gateway) route(path string) *Route {
	var best *Route
	for i := range g.routes {
		r := &g.routes[i]
		if strings.HasPrefix(path, r.Prefix) {
			if best == nil || len(r.Prefix) > len(best.Prefix) {
				best = r
			}
		}
	}
	return best
}

// Proxy returns the gin handler that forwards matched requests
func (g *Gateway) Proxy() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := g.route(c.Request.URL.Path)
		if route == nil {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "No route for path"))
			return
		}

		proxy := httputil.NewSingleHostReverseProxy(route.Target)
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			g.logger.Error("backend unreachable",
				zap.String("service", route.Service),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintf(w, `{"success":false,"error":{"code":%q,"message":"Backend service unavailable"}}`, dto.ErrCodeUnavailable)
		}

		proxy.ServeHTTP(c.Writer, c.Request)
	}
}

// BackendHealth is one backend's health probe result
type BackendHealth struct {
	Service string `json:"service"`
	Healthy bool   `json:"healthy"`
}

// AggregateHealthResponse reports gateway health including backends
type AggregateHealthResponse struct {
	Status   string          `json:"status"`
	Backends []BackendHealth `json:"backends"`
}

// Healthz probes each distinct backend's /health endpoint
func (g *Gateway) Healthz() gin.HandlerFunc {
	return func(c *gin.Context) {
		seen := make(map[string]bool)
		results := make([]BackendHealth, 0, len(g.routes))
		allHealthy := true

		for _, route := range g.routes {
			if seen[route.Service] {
				continue
			}
			seen[route.Service] = true

			healthy := g.probe(c.Request.Context(), route.Target)
			if !healthy {
				allHealthy = false
			}
			results = append(results, BackendHealth{Service: route.Service, Healthy: healthy})
		}

		status := "ok"
		code := http.StatusOK
		if !allHealthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, AggregateHealthResponse{Status: status, Backends: results})
	}
}

func (g *Gateway) probe(ctx context.Context, target *url.URL) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.JoinPath("/api/v1/health").String(), nil)
	if err != nil {
		return false
	}
	resp, err := g.health.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// RegisterRoutes mounts the proxy on the engine root so all /api/v1
// paths fall through to the backends
func (g *Gateway) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", g.Healthz())
	proxy := g.Proxy()
	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/v1/") {
			proxy(c)
			return
		}
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "No route for path"))
	})
}
