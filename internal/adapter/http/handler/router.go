package handler

import (
	"time"

	"relief-credit-ledger/internal/adapter/http/middleware"
	redisStore "relief-credit-ledger/internal/adapter/storage/redis"
	"relief-credit-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	RegistrySvc    ports.RegistryService
	ReportingSvc   ports.ReportingService
	ParticipantSvc ports.ParticipantService // nil = self-service disabled
	WebhookSvc     ports.WebhookService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	Logger         zerolog.Logger
	DailyLimit     int64
	DayLength      time.Duration
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	// --- Administrator operations (JWT-authenticated, admin enforced in services) ---
	adminHandler := NewAdminHandler(deps.RegistrySvc, deps.LedgerSvc, deps.WebhookSvc)
	admin := v1.Group("/admin", jwtAuth)
	{
		admin.POST("/beneficiaries", rl("registry"), adminHandler.OnboardBeneficiaries)
		admin.POST("/vendors", rl("registry"), adminHandler.RegisterVendor)
		admin.POST("/distributions", rl("distributions"), adminHandler.DistributeAid)
	}

	// --- Transfers (JWT-authenticated) ---
	transferHandler := NewTransferHandler(deps.LedgerSvc, deps.ReportingSvc, deps.WebhookSvc)
	transfers := v1.Group("/transfers", jwtAuth)
	{
		transfers.POST("", rl("transfers"), transferHandler.Transfer)
		transfers.GET("", rl("dashboard"), transferHandler.ListTransfers)
	}

	// --- Queries (JWT-authenticated) ---
	queryHandler := NewQueryHandler(deps.ReportingSvc, deps.RegistrySvc, deps.DailyLimit, deps.DayLength)
	accounts := v1.Group("/accounts", jwtAuth)
	{
		accounts.GET("/:account/balance", rl("dashboard"), queryHandler.GetBalance)
		accounts.GET("/:account/spent-today", rl("dashboard"), queryHandler.GetSpentToday)
		accounts.GET("/:account/aid-view", rl("dashboard"), queryHandler.GetAidView)
	}

	totals := v1.Group("/totals", jwtAuth)
	{
		totals.GET("", rl("dashboard"), queryHandler.GetAllTotals)
		totals.GET("/:category", rl("dashboard"), queryHandler.GetCategoryTotal)
	}

	registry := v1.Group("/registry", jwtAuth)
	{
		registry.GET("/beneficiaries/:account", rl("dashboard"), queryHandler.GetBeneficiaryStatus)
		registry.GET("/vendors/:account", rl("dashboard"), queryHandler.GetVendor)
	}

	v1.GET("/program", jwtAuth, rl("dashboard"), queryHandler.GetProgramInfo)

	// --- Participant self-service (JWT-authenticated) ---
	if deps.ParticipantSvc != nil {
		participantHandler := NewParticipantHandler(deps.ParticipantSvc)
		me := v1.Group("/participants/me", jwtAuth)
		{
			me.GET("", rl("dashboard"), participantHandler.GetProfile)
			me.PUT("/webhook", rl("dashboard"), participantHandler.UpdateWebhook)
			me.POST("/rotate-secret", rl("dashboard"), participantHandler.RotateSecret)
		}
	}

	return r
}
