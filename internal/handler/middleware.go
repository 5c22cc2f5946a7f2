package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/secure"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

const (
	identityKey     = "identity"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	rateLimitedCode = "RATE_LIMITED"
)

// AuthMiddleware is the Authorization Gate. The bearer header wins over the
// cookie; a request with neither is rejected before any verification.
func AuthMiddleware(authService *service.AuthService, cookieName string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := extractToken(c, cookieName)
		if token == "" {
			writeError(c, log, service.ErrMissingToken)
			return
		}

		identity, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			writeError(c, log, err)
			return
		}

		c.Set(identityKey, identity)
		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// extractToken returns "" when neither a Bearer header nor the cookie carries a
// token. Other Authorization schemes count as no token at all.
func extractToken(c *gin.Context, cookieName string) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		if token := strings.TrimSpace(header[7:]); token != "" {
			return token
		}
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(token)
}

func GetIdentity(c *gin.Context) *service.Identity {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(*service.Identity); ok {
			return identity
		}
	}
	return nil
}

// RequireRole is the Role Gate; it must run after AuthMiddleware.
func RequireRole(log logrus.FieldLogger, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.RequireRole(GetIdentity(c), roles...); err != nil {
			writeError(c, log, err)
			return
		}
		c.Next()
	}
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}
	_, allowAny := originMap["*"]

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, listed := originMap[origin]
			switch {
			case listed:
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
			case allowAny:
				// Browsers reject credentials with a wildcard origin.
				c.Header("Access-Control-Allow-Origin", "*")
			}
			if listed || allowAny {
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLogger tags each request with an id and logs one line when it completes.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request completed")
		case status >= http.StatusBadRequest:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// Recovery turns a panic into a logged 500 INTERNAL_ERROR.
func Recovery(log logrus.FieldLogger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"panic":      recovered,
		}).Error("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
			Message: specFor(service.KindInternal).message,
			Error:   string(service.KindInternal),
		})
	})
}

// SecureHeaders sets the standard security headers. HTTPS redirects and HSTS
// only apply in production.
func SecureHeaders(production bool) gin.HandlerFunc {
	mw := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         !production,
	})

	return func(c *gin.Context) {
		if err := mw.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
		}
	}
}

// RateLimit allows limit requests per window per client IP. A non-positive
// limit disables it. The client IP only honours X-Forwarded-For from proxies
// set with SetTrustedProxies.
func RateLimit(limit int, window time.Duration, message string) gin.HandlerFunc {
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := httprate.NewRateLimiter(limit, window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(model.ErrorResponse{Message: message, Error: rateLimitedCode})
		}),
	)

	return func(c *gin.Context) {
		if limiter.RespondOnLimit(c.Writer, c.Request, c.ClientIP()) {
			c.Abort()
			return
		}
		c.Next()
	}
}
