package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cytutor/backend/internal/config"
	"github.com/cytutor/backend/internal/db"
	"github.com/cytutor/backend/internal/handler"
	"github.com/cytutor/backend/internal/logger"
	"github.com/cytutor/backend/internal/revocation"
	"github.com/cytutor/backend/internal/service"
)

// @title CyTutor API
// @version 1.0
// @description Backend for the CyTutor capture-the-flag learning platform.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := logger.New(cfg.Log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgresPool(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	store := db.NewPostgres(pool)

	revocations, redisClient, err := newRevocationStore(ctx, cfg, store)
	if err != nil {
		log.WithError(err).Fatal("failed to set up revocation store")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if cfg.Revocation.Backend == config.RevocationBackendPostgres && strings.TrimSpace(cfg.Revocation.PruneSchedule) != "" {
		pruner, err := revocation.NewPruner(store, cfg.Revocation.PruneSchedule, log)
		if err != nil {
			log.WithError(err).Fatal("failed to schedule revocation pruning")
		}
		pruner.Start()
		defer pruner.Stop()
	}

	tokens, err := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn)
	if err != nil {
		log.WithError(err).Fatal("failed to init token manager")
	}
	hasher, err := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("failed to init password hasher")
	}

	authService := service.NewAuthService(store, revocations, tokens, hasher, log)
	challengeService := service.NewChallengeService(store, log)

	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.WithError(err).Fatal("failed to ensure bootstrap admin")
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:       authService,
		Challenges: challengeService,
		Log:        log,
		Cookie: handler.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Path:   cfg.Auth.CookiePath,
			Domain: cfg.Auth.CookieDomain,
			Secure: cfg.CookieSecure(),
		},
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		Production:     cfg.IsProduction(),
		RateLimit:      cfg.RateLimit,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Server.Port, "env": cfg.Server.Env}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// newRevocationStore picks the blacklist backend and wraps it with the
// in-process cache unless REVOCATION_CACHE_SIZE is 0.
func newRevocationStore(ctx context.Context, cfg config.Config, pg *db.Postgres) (service.RevocationStore, *redis.Client, error) {
	var (
		store       service.RevocationStore = pg
		redisClient *redis.Client
	)

	if cfg.Revocation.Backend == config.RevocationBackendRedis {
		client, err := revocation.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		redisClient = client
		store = revocation.NewRedisStore(client)
	}

	if cfg.Revocation.CacheSize > 0 {
		store = revocation.NewCachedStore(store, cfg.Revocation.CacheSize, cfg.Revocation.CacheTTL)
	}
	return store, redisClient, nil
}
