package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketing_site/internal/metrics"
	"marketing_site/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin context keys.
const (
	ctxSession   = "session"
	ctxUser      = "user"
	ctxRequestID = "request_id"

	requestIDHeader = "X-Request-ID"
)

// sessionMiddleware resolves the session cookie into a *models.Session on
// the context. Requests without a usable cookie get an empty session.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token := readSessionCookie(c)
	sess, err := h.services.Sessions.LoadSession(c.Request.Context(), token)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, gin.H{"message": msgInternalError}, "session_load_failed", err)
		return
	}
	if token != "" && sess.IsNew() {
		// stale or forged cookie
		h.clearSessionCookie(c)
	}
	c.Set(ctxSession, sess)
	c.Next()
}

// requireAdmin lets the request through only when the session holds a user.
func (h *Handler) requireAdmin(c *gin.Context) {
	sess := currentSession(c)
	if !sess.Authenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": msgUnauthorized,
		})
		return
	}

	c.Set(ctxUser, *sess.Data.User)
	c.Next()
}

// currentSession returns the session placed by sessionMiddleware.
func currentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(*models.Session); ok && sess != nil {
			return sess
		}
	}
	return &models.Session{}
}

// contactRateLimit caps submissions per client IP when a limiter is configured.
func (h *Handler) contactRateLimit(c *gin.Context) {
	if h.limiter == nil {
		c.Next()
		return
	}
	allowed, err := h.limiter.Allow(c.Request.Context(), c.ClientIP())
	if err != nil {
		h.log.Warnw("contact_rate_limit_unavailable", "err", err, "request_id", requestIDFrom(c))
	}
	if !allowed {
		metrics.ContactSubmissionsTotal.WithLabelValues("rate_limited").Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"message": msgTooManyRequests,
		})
		return
	}
	c.Next()
}

// requestID assigns a UUIDv7 to each request unless the client sent one.
func requestID(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(requestIDHeader))
	if id == "" || len(id) > 128 {
		id = uuid.Must(uuid.NewV7()).String()
	}
	c.Set(ctxRequestID, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// requestLogger logs every request; the level follows the status class.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	kv := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
		"bytes", c.Writer.Size(),
		"request_id", requestIDFrom(c),
		"client_ip", c.ClientIP(),
	}
	switch {
	case status >= http.StatusInternalServerError:
		h.log.Errorw("request", kv...)
	case status >= http.StatusBadRequest:
		h.log.Warnw("request", kv...)
	default:
		h.log.Infow("request", kv...)
	}
}

// recordMetrics feeds the Prometheus request collectors.
func recordMetrics(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}

// securityHeaders adds API-safe security response headers.
func securityHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'")
	h.Set("Cache-Control", "no-store")

	// Only emit HSTS when request is over HTTPS (direct or forwarded).
	if c.Request.TLS != nil || strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https") {
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
	c.Next()
}
