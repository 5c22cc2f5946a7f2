package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cytutor/backend/internal/config"
	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

type RouterConfig struct {
	Auth           *service.AuthService
	Challenges     *service.ChallengeService
	Log            logrus.FieldLogger
	Cookie         CookieConfig
	CORSOrigins    []string
	TrustedProxies []string
	Production     bool
	RateLimit      config.RateLimitConfig
}

// NewRouter wires middleware in order: recovery, request logging, security
// headers, CORS, global rate limit.
func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	// Only listed proxies may set X-Forwarded-For; otherwise the peer address is the client IP.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		cfg.Log.WithError(err).Warn("invalid trusted proxies, using peer address as client IP")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		Recovery(cfg.Log),
		RequestLogger(cfg.Log),
		SecureHeaders(cfg.Production),
		CORSMiddleware(cfg.CORSOrigins, true),
		RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window, "Too many requests from this IP, please try again later."),
	)

	router.GET("/ping", Ping)
	router.GET("/health", Health)
	router.GET("/openapi.json", OpenAPIDoc)

	authHandler := NewAuthHandler(cfg.Auth, cfg.Cookie, cfg.Log)
	challengeHandler := NewChallengeHandler(cfg.Challenges, cfg.Log)

	requireAuth := AuthMiddleware(cfg.Auth, cfg.Cookie.Name, cfg.Log)
	requireAdmin := RequireRole(cfg.Log, model.RoleAdmin)
	authLimit := RateLimit(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow, "Too many authentication attempts, please try again later.")

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authLimit, authHandler.Register)
		auth.POST("/login", authLimit, authHandler.Login)
		auth.GET("/profile", requireAuth, authHandler.Profile)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.GET("/verify", requireAuth, authHandler.Verify)

		challenges := api.Group("/challenges", requireAuth)
		challenges.GET("", challengeHandler.List)
		challenges.GET("/:id", challengeHandler.Get)
		challenges.POST("/:id/submit", challengeHandler.Submit)
		challenges.POST("", requireAdmin, challengeHandler.Create)
		challenges.PUT("/:id", requireAdmin, challengeHandler.Update)

		api.GET("/progress", requireAuth, challengeHandler.Progress)

		admin := api.Group("/admin", requireAuth, requireAdmin)
		admin.PATCH("/users/:id/status", authHandler.AccountStatus)
	}

	return router
}
