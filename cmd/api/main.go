package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/clinkr/clinkr-api/internal/config"
	"github.com/clinkr/clinkr-api/internal/domain/admin"
	"github.com/clinkr/clinkr-api/internal/domain/click"
	"github.com/clinkr/clinkr-api/internal/domain/link"
	"github.com/clinkr/clinkr-api/internal/domain/payment"
	"github.com/clinkr/clinkr-api/internal/domain/subscription"
	"github.com/clinkr/clinkr-api/internal/explorer"
	"github.com/clinkr/clinkr-api/internal/middleware"
	"github.com/clinkr/clinkr-api/internal/pkg/database"
	"github.com/clinkr/clinkr-api/internal/pkg/fingerprint"
	"github.com/clinkr/clinkr-api/internal/pkg/logger"
	pkgresponse "github.com/clinkr/clinkr-api/internal/pkg/response"
	"github.com/clinkr/clinkr-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Clinkr API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	// ---------- Chain explorers ----------
	registry := explorer.NewRegistry(
		explorer.NewTronAdapter(cfg.TronGridBaseURL, cfg.ExplorerTimeout),
		explorer.NewBscScanAdapter(cfg.BscScanBaseURL, cfg.BscScanAPIKey, cfg.ExplorerTimeout),
		explorer.NewEtherscanAdapter(cfg.EtherscanBaseURL, cfg.EtherscanAPIKey, cfg.ExplorerTimeout),
		explorer.NewBitcoinAdapter(cfg.BlockchainBaseURL, cfg.ExplorerTimeout),
		explorer.NewSolanaAdapter(cfg.SolanaRPCURL, cfg.ExplorerTimeout),
	)

	// ---------- Repositories ----------
	paymentRepo := payment.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)
	linkRepo := link.NewRepository(db)
	clickRepo := click.NewRepository(db)

	// ---------- Live click feed ----------
	clickHub := click.NewHub(redis)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go clickHub.Run(hubCtx)

	// ---------- Click classification ----------
	var limiter click.Limiter
	if redis != nil {
		limiter = click.NewRedisLimiter(redis, cfg.ClickRateLimit, cfg.ClickRateWindow)
	} else {
		limiter = click.NewMemoryLimiter(cfg.ClickRateLimit, cfg.ClickRateWindow)
	}
	hasher := fingerprint.NewHasher(cfg.FingerprintSalt)
	clickService := click.NewService(clickRepo, link.NewClickResolver(linkRepo), limiter, hasher, clickHub)

	// ---------- Services ----------
	subscriptionService := subscription.NewService(subscriptionRepo)
	paymentService := payment.NewService(paymentRepo, payment.NewVerifier(registry), subscriptionService)

	// CSV exports go to R2 when configured
	var uploader link.Uploader
	if cfg.R2AccountID != "" {
		r2, err := storage.NewR2Storage(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create R2 storage")
		}
		uploader = r2
	}

	linkService := link.NewService(linkRepo, clickService, subscriptionService, uploader, cfg.ShortDomain, cfg.ShortCodeLength)

	adminJWT := admin.NewJWTService(cfg.JWTSecret, cfg.AdminJWTTTL)
	adminService := admin.NewService(adminJWT, cfg.AdminKeyHash, paymentRepo, clickRepo, linkRepo)
	adminMiddleware := admin.AuthMiddleware(adminJWT)

	// ---------- Handlers ----------
	paymentHandler := payment.NewHandler(paymentService)
	linkHandler := link.NewHandler(linkService)
	clickHandler := click.NewHandler(clickHub, cfg.AllowedOrigins)
	adminHandler := admin.NewHandler(adminService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Public redirect, the hot path
	r.Get("/{code:[a-zA-Z0-9]+}", linkHandler.Redirect)

	// WebSocket endpoint (before Compress)
	r.Get("/ws/clicks", func(w http.ResponseWriter, r *http.Request) {
		adminMiddleware(http.HandlerFunc(clickHandler.LiveFeed)).ServeHTTP(w, r)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/links", linkHandler.Routes(adminMiddleware))
		r.Mount("/payments", paymentHandler.Routes(adminMiddleware))
		r.Mount("/admin", adminHandler.Routes(adminMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
