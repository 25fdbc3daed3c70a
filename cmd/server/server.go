package main

import (
	"context"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ZanzyTHEbar/troupe-insights/docs"
	"github.com/ZanzyTHEbar/troupe-insights/internal/auth"
	"github.com/ZanzyTHEbar/troupe-insights/internal/broadcast"
	"github.com/ZanzyTHEbar/troupe-insights/internal/config"
	"github.com/ZanzyTHEbar/troupe-insights/internal/dashboard"
	"github.com/ZanzyTHEbar/troupe-insights/internal/database"
	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
	"github.com/ZanzyTHEbar/troupe-insights/internal/iconmap"
	"github.com/ZanzyTHEbar/troupe-insights/internal/importer"
	"github.com/ZanzyTHEbar/troupe-insights/internal/middleware"
	"github.com/ZanzyTHEbar/troupe-insights/internal/monitoring"
	"github.com/ZanzyTHEbar/troupe-insights/internal/ratelimit"
	"github.com/ZanzyTHEbar/troupe-insights/internal/resilience"
	"github.com/ZanzyTHEbar/troupe-insights/internal/security"
)

const (
	msgLoginLimited          = "Too many login attempts. Please try again later."
	msgChangePasswordLimited = "Too many password change attempts. Please try again later."
	msgVerifyCodeLimited     = "Too many attempts. Please try again later."
)

// server holds the services the HTTP handlers call
type server struct {
	cfg        config.Config
	db         *database.DB
	dash       *dashboard.Service
	auth       *auth.Service
	gate       *auth.SitewideGate
	broadcasts *broadcast.Service
	icons      *iconmap.Service
	validator  *importer.Validator
	limiter    *ratelimit.RateLimiter
	security   *security.SecurityMiddleware
	compressor *middleware.CompressionMiddleware
	health     *resilience.HealthManager
	metrics    *monitoring.Metrics
	logger     *monitoring.Logger
	started    time.Time
}

// newServer wires the services over db. redis may be nil. The dashboard
// snapshot starts empty; call dash.Load before serving.
func newServer(cfg config.Config, db *database.DB, redis *ratelimit.RedisClient, metrics *monitoring.Metrics, logger *monitoring.Logger) *server {
	repo := database.NewRepository(db)

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.AttemptLimit = cfg.AttemptLimit
	limiterCfg.AttemptWindow = cfg.AttemptWindow
	limiterCfg.IPLimitPerMin = cfg.IPLimitPerMin

	compression := middleware.DefaultCompressionConfig()
	if cfg.CompressionMinBytes > 0 {
		compression.MinSize = cfg.CompressionMinBytes
	}

	health := resilience.NewHealthManager(3 * time.Second)
	health.RegisterService("database", true, repo.Ping)
	if redis.IsEnabled() {
		health.RegisterService("redis", false, redis.HealthCheck)
	}

	return &server{
		cfg: cfg,
		db:  db,
		dash: dashboard.NewService(repo, dashboard.Options{
			CacheTTL: cfg.AnalyticsTTL,
			TopN:     cfg.TopN,
			Metrics:  metrics,
			Logger:   logger,
		}),
		auth:       auth.NewService(repo, cfg.JWTSecret, cfg.SessionTTL),
		gate:       auth.NewSitewideGate(cfg.SitewideCode),
		broadcasts: broadcast.NewService(repo),
		icons:      iconmap.NewService(repo),
		validator:  importer.NewValidator(),
		limiter:    ratelimit.NewRateLimiter(redis, limiterCfg, metrics),
		security:   security.NewSecurityMiddleware(security.FromConfig(cfg)),
		compressor: middleware.NewCompressionMiddleware(compression),
		health:     health,
		metrics:    metrics,
		logger:     logger,
		started:    time.Now(),
	}
}

// start loads the snapshot and launches the background loops
func (s *server) start(ctx context.Context) error {
	if err := s.dash.Load(ctx); err != nil {
		return err
	}
	if s.cfg.AdminDefaultPassword != "" {
		user, created, err := s.auth.EnsureAdmin(ctx, s.cfg.AdminDefaultPassword)
		switch {
		case err != nil:
			s.logger.Error("Failed to bootstrap admin user", "error", err)
		case created:
			s.logger.Info("Admin user created", "username", user.Username)
		}
	}
	s.dash.StartAutoRefresh(s.cfg.RefreshInterval)
	if s.cfg.HealthCheckInterval > 0 {
		go s.health.StartHealthChecks(ctx, s.cfg.HealthCheckInterval)
	}
	return nil
}

func (s *server) close() {
	s.dash.Close()
	s.limiter.Close()
}

func setupRouter(s *server) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
		s.logger.Warn("Invalid TRUSTED_PROXIES, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(errors.RecoveryHandler())
	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger, s.cfg.MaxUploadBytes))
	r.Use(errors.ErrorHandler())
	r.Use(s.security.Handlers()...)
	r.Use(s.limiter.IPRateLimitMiddleware())

	r.GET("/health", s.handleHealth)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api", s.compressor.Handler())
	requireAdmin := s.auth.RequireAdmin()

	api.GET("/activities", s.handleActivities)
	api.GET("/verify-otp", s.handleUnlockStatus)
	api.POST("/verify-otp", s.handleVerifyCode)
	api.GET("/category-mappings", s.handleListCategoryMappings)
	api.POST("/category-mappings", requireAdmin, s.handleSetCategoryMapping)
	api.POST("/upload", requireAdmin, s.security.LimitUploadSize, s.handleUpload)
	api.GET("/uploads", requireAdmin, s.handleListUploads)
	api.DELETE("/uploads/:id", requireAdmin, s.handleDeleteUpload)

	analytics := api.Group("/analytics")
	analytics.GET("/export.xlsx", s.handleExport)
	cached := analytics.Group("", s.dash.ResponseCache().Middleware(s.metrics, s.dash.CacheKey))
	{
		cached.GET("/summary", s.handleSummary)
		cached.GET("/top", s.handleTop)
		cached.GET("/categories", s.handleCategories)
		cached.GET("/leaders", s.handleLeaders)
		cached.GET("/totals", s.handleTotals)
		cached.GET("/budget", s.handleBudget)
		cached.GET("/dynamics", s.handleDynamics)
		cached.GET("/patterns", s.handlePatterns)
		cached.GET("/distribution", s.handleDistribution)
		cached.GET("/available-categories", s.handleAvailableCategories)
	}

	api.GET("/broadcasts/active", s.handleActiveBroadcasts)
	broadcasts := api.Group("/broadcasts", requireAdmin)
	{
		broadcasts.GET("", s.handleListBroadcasts)
		broadcasts.POST("", s.handleCreateBroadcast)
		broadcasts.PUT("", s.handleUpdateBroadcast)
		broadcasts.DELETE("/:id", s.handleDeleteBroadcast)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login",
			s.limiter.AttemptLimitMiddleware(ratelimit.PolicyLogin, ratelimit.ClientIPKey, msgLoginLimited),
			s.handleLogin)
		admin.POST("/logout", s.handleLogout)
		admin.GET("/session", s.handleSession)
		admin.POST("/change-password",
			s.auth.OptionalAdmin(),
			s.limiter.AttemptLimitMiddleware(ratelimit.PolicyChangePassword, auth.AdminOrIPKey, msgChangePasswordLimited),
			requireAdmin,
			s.handleChangePassword)
		admin.POST("/init", s.handleInitAdmin)
		admin.GET("/metrics", requireAdmin, s.handleMetrics)
	}

	if s.cfg.EnableProfiling {
		s.logger.Info("Enabling performance profiling endpoints")
		debug := r.Group("/debug/pprof")
		debug.GET("/", gin.WrapF(pprof.Index))
		debug.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		debug.GET("/profile", gin.WrapF(pprof.Profile))
		debug.GET("/symbol", gin.WrapF(pprof.Symbol))
		debug.GET("/trace", gin.WrapF(pprof.Trace))
		for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
			debug.GET("/"+name, gin.WrapH(pprof.Handler(name)))
		}
	}

	return r
}
