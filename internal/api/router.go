package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pdihub/pdihub/internal/dbpool"
	"github.com/pdihub/pdihub/internal/middleware"
	"github.com/pdihub/pdihub/internal/security"
	"github.com/pdihub/pdihub/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Inspections InspectionRepository
	Users       UserRepository
	Audit       AuditRepository
	Compliance  ComplianceRepository
	Sessions    SessionRevoker
	ActorLookup middleware.ActorLookup
	CORSOrigins []string

	// TrustedProxies names the proxies (IPs or CIDR ranges) whose
	// Forwarded-For headers are believed when resolving client IPs.
	// Empty means no proxy is trusted and the socket address is used.
	TrustedProxies []string

	Version string
}

// Router-level limits.
const (
	maxBodySize = 5 << 20 // 5 MB; payloads hold photo references, not bytes
	rateLimit   = 50      // requests per second per IP
	rateBurst   = 100     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	if len(deps.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
			deps.Log.WithError(err).Fatal("invalid trusted proxy list")
		}
	} else {
		r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	}
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	inspections := NewInspectionHandler(deps.Inspections, log)
	users := NewUserHandler(deps.Users, deps.Sessions, log)
	audit := NewAuditHandler(deps.Audit, log)
	compliance := NewComplianceHandler(deps.Compliance, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication.
	bfGuard := security.NewBruteForceGuard(ctx, log)
	api.Use(middleware.AuthMiddleware(deps.ActorLookup, log, bfGuard))

	// Inspections.
	api.GET("/inspections", inspections.List)
	api.POST("/inspections", inspections.Create)
	api.POST("/inspections/submit", inspections.Submit)
	api.GET("/inspections/:id", inspections.Get)
	api.PATCH("/inspections/:id/sections/:name", inspections.SaveSection)
	api.POST("/inspections/:id/complete", inspections.Complete)
	api.DELETE("/inspections/:id", inspections.Delete)

	// Users.
	api.GET("/users", users.List)
	api.POST("/users", users.Create)
	api.GET("/users/:id", users.Get)
	api.PUT("/users/:id", users.Update)
	api.DELETE("/users/:id", users.Deactivate)

	// Sessions.
	api.POST("/auth/logout", users.Logout)

	// Audit.
	api.GET("/audit", audit.Query)
	api.DELETE("/audit", audit.Purge)

	// Compliance.
	api.POST("/compliance/sweep", compliance.Sweep)

	// WebSocket endpoint for review dashboards.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.ActorLookup))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
