package handlers

import (
	"context"

	_ "marketing_site/docs"
	"marketing_site/internal/logger"
	"marketing_site/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ContactLimiter throttles public contact submissions per client key.
type ContactLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Options carries per-process HTTP settings.
type Options struct {
	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
	// ContactLimiter is optional; nil disables rate limiting.
	ContactLimiter ContactLimiter
	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	limiter        ContactLimiter
	secureCookies  bool
	trustedProxies []string
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		services:       services,
		log:            log,
		limiter:        opts.ContactLimiter,
		secureCookies:  opts.SecureCookies,
		trustedProxies: opts.TrustedProxies,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
// The session middleware is mounted here, once, on the /api group; the
// register* helpers never add it themselves.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(h.trustedProxies); err != nil {
		h.log.Errorw("invalid trusted proxies; trusting none", "err", err, "proxies", h.trustedProxies)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), requestID, h.requestLogger, recordMetrics)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health endpoints skip the session store
	h.registerHealthRoutes(router)

	api := router.Group("/api", securityHeaders, h.sessionMiddleware)
	{
		h.registerAdminRoutes(api)
		h.registerContactRoutes(api)
	}

	return router
}

func (h *Handler) registerHealthRoutes(r *gin.Engine) {
	health := r.Group("/api/health")
	{
		health.GET("", h.health)
		health.GET("/ready", h.ready)
	}
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	{
		admin.POST("/login", h.login)
		admin.POST("/logout", h.logout)
		admin.GET("/user", h.requireAdmin, h.currentUser)
		admin.GET("/contact-submissions", h.requireAdmin, h.listSubmissions)
	}
}

func (h *Handler) registerContactRoutes(api *gin.RouterGroup) {
	api.POST("/contact", h.contactRateLimit, h.submitContact)
}
