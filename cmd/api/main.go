package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relief-credit-ledger/config"
	httpHandler "relief-credit-ledger/internal/adapter/http/handler"
	pgStorage "relief-credit-ledger/internal/adapter/storage/postgres"
	redisStorage "relief-credit-ledger/internal/adapter/storage/redis"
	"relief-credit-ledger/internal/core/ports"
	"relief-credit-ledger/internal/service"
	"relief-credit-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Relief Credit Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	participantRepo := pgStorage.NewParticipantRepo(pool)
	registryRepo := pgStorage.NewRegistryRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	spendRepo := pgStorage.NewSpendLimitRepo(pool)
	totalsRepo := pgStorage.NewTotalsRepo(pool)
	transferRepo := pgStorage.NewTransferRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	auditLogRepo := pgStorage.NewAuditLogRepository(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Auth must come first: the administrator account is provisioned at
	// startup and its ID is a dependency of the ledger and registry services.
	authSvc := service.NewAuthService(participantRepo, hashSvc, encSvc, tokenSvc, log)
	adminID, err := authSvc.EnsureAdmin(ctx, cfg.Program.AdminUsername, cfg.Program.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to provision administrator account")
	}
	log.Info().Str("admin_id", adminID.String()).Msg("Administrator account ready")

	// Initialize business services
	registrySvc := service.NewRegistryService(registryRepo, adminID, nil, log)
	ledgerSvc := service.NewLedgerService(
		ledgerRepo,
		registryRepo,
		spendRepo,
		totalsRepo,
		transferRepo,
		idempotencyRepo,
		idempotencyCache,
		transactor,
		adminID,
		cfg.Program.DailyLimit,
		cfg.Program.DayLength,
		nil,
		log,
	)
	reportingSvc := service.NewReportingService(
		ledgerRepo,
		spendRepo,
		totalsRepo,
		transferRepo,
		cfg.Program.DailyLimit,
		cfg.Program.DayLength,
		nil,
		log,
	)
	participantSvc := service.NewParticipantService(participantRepo, encSvc)
	webhookSvc := service.NewWebhookService(participantRepo, encSvc, sigSvc, &http.Client{Timeout: 10 * time.Second}, log)
	auditSvc := service.NewAuditService(auditLogRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		LedgerSvc:      ledgerSvc,
		RegistrySvc:    registrySvc,
		ReportingSvc:   reportingSvc,
		ParticipantSvc: participantSvc,
		WebhookSvc:     webhookSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
		DailyLimit:     cfg.Program.DailyLimit,
		DayLength:      cfg.Program.DayLength,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
