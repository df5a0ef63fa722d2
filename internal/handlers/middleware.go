package handlers

import (
	"net/http"
	"strings"
	"time"

	"rental_market/internal/models"
	"rental_market/internal/service"
	"rental_market/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
	claimsKey       = "claims"
)

// requestLogger tags each request with an id and logs it once it completes.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()

	rid := c.GetHeader(requestIDHeader)
	if rid == "" {
		rid = uuid.NewString()
	}
	c.Set(requestIDKey, rid)
	c.Header(requestIDHeader, rid)

	c.Next()

	h.log.Infow("http_request",
		"request_id", rid,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

// requireRole guards HTML routes. Any failure redirects to the login page.
func (h *Handler) requireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := session.Authorize(c, roles...); err != nil {
			h.log.Infow("access_denied", "path", c.Request.URL.Path, "required", roles)
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// apiAuth validates the bearer token and stores its claims in the context.
func (h *Handler) apiAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	claims, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

// apiRequireRole must run after apiAuth.
func (h *Handler) apiRequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok
}
