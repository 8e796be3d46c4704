// Package router assembles the gin engine for each service binary.
// Handlers register themselves through the RouteRegistrar interface so
// every binary shares the same middleware stack and only the route set
// differs.
package router

import (
	"github.com/orderhub/backend/internal/infrastructure/auth"
	"github.com/orderhub/backend/internal/infrastructure/config"
	"github.com/orderhub/backend/internal/infrastructure/logger"
	"github.com/orderhub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// RouteRegistrar registers a handler's routes on a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options configures the engine built by New
type Options struct {
	ServiceName string
	Config      *config.Config
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	Blacklist   auth.TokenBlacklist
	// SkipAuth disables the JWT middleware entirely. Used by the
	// gateway, which forwards the Authorization header untouched.
	SkipAuth bool
	// ExtraSkipPaths are added to the JWT middleware skip list
	ExtraSkipPaths []string
}

// Router holds the engine and the versioned API group
type Router struct {
	engine *gin.Engine
	api    *gin.RouterGroup
}

// New builds a gin engine with the standard middleware stack and an
// /api/v1 group
func New(opts Options) *Router {
	if opts.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(opts.Logger))
	engine.Use(middleware.Secure())
	engine.Use(otelgin.Middleware(opts.ServiceName))

	httpCfg := opts.Config.HTTP
	if len(httpCfg.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(httpCfg.TrustedProxies)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = httpCfg.CORSAllowOrigins
	if len(httpCfg.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if httpCfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(httpCfg.MaxBodySize))
	}
	if httpCfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(httpCfg.RateLimitRequests, httpCfg.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	if !opts.SkipAuth && opts.JWTService != nil {
		jwtCfg := middleware.DefaultJWTConfig(opts.JWTService)
		jwtCfg.TokenBlacklist = opts.Blacklist
		jwtCfg.Logger = opts.Logger
		jwtCfg.SkipPaths = append(jwtCfg.SkipPaths,
			"/api/v1/system/ping",
			"/api/v1/system/info",
		)
		jwtCfg.SkipPaths = append(jwtCfg.SkipPaths, opts.ExtraSkipPaths...)
		engine.Use(middleware.JWTAuthWithConfig(jwtCfg))
	}

	return &Router{
		engine: engine,
		api:    engine.Group("/api/v1"),
	}
}

// Register mounts one or more handlers on the /api/v1 group
func (r *Router) Register(registrars ...RouteRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r.api)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
