package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/novashop/internal/config"
	"github.com/georgemunganga/novashop/internal/database"
	"github.com/georgemunganga/novashop/internal/modules/auth"
	"github.com/georgemunganga/novashop/internal/modules/catalog"
	"github.com/georgemunganga/novashop/internal/modules/checkout"
	"github.com/georgemunganga/novashop/internal/modules/role"
	"github.com/georgemunganga/novashop/internal/modules/shop"
	"github.com/georgemunganga/novashop/internal/modules/user"
	logx "github.com/georgemunganga/novashop/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, loadedDotEnv, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load configuration")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment()})
	if !loadedDotEnv {
		logx.Debug().Msg("no .env file found, using process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logx.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()
	if err := database.Migrate(db, cfg.MigrationsPath); err != nil {
		logx.Fatal().Err(err).Msg("migrations failed")
	}
	logx.Info().Msg("connected to the database")

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	// ── Identity & Roles ────────────────────────────────────
	userService := user.NewService(user.NewPostgresRepository(db))
	roleService := role.NewService(role.NewPostgresRepository(db))

	authService := auth.NewService(
		userService,
		roleService,
		auth.NewRedisTokenStore(rdb),
		[]byte(cfg.JWTSecret),
		cfg.SessionTTL,
	)
	router.Use(auth.Middleware(authService))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog & Shop Sessions ─────────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db), cfg.DefaultProductImage)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	sessions := shop.NewSessions(catalogService, roleService, shop.SessionsConfig{
		IdleTimeout: cfg.ShopSessionIdleTimeout,
		MaxSessions: cfg.ShopMaxSessions,
	})
	go sessions.Run(ctx)
	shop.NewHandler(sessions).RegisterRoutes(router)

	// ── Checkout ────────────────────────────────────────────
	gateway := newGateway(cfg)
	checkoutService := checkout.NewService(checkout.WithBreaker(gateway, checkout.DefaultBreakerConfig))
	checkout.NewHandler(checkoutService, sessions, checkout.NewTrackers(), cfg.PublicBaseURL).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logx.Info().Str("port", cfg.Port).Str("env", cfg.Environment().String()).Msg("NovaShop API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newGateway(cfg *config.Config) checkout.Gateway {
	switch cfg.PaymentProvider {
	case "stripe":
		if cfg.StripeSecretKey == "" {
			logx.Fatal().Msg("PAYMENT_PROVIDER=stripe requires STRIPE_SECRET_KEY")
		}
		return checkout.NewStripeGateway(cfg.StripeSecretKey)
	case "sandbox":
		if cfg.Environment().IsProduction() {
			logx.Warn().Msg("sandbox payment gateway in production")
		}
		return checkout.NewSandboxGateway()
	default:
		logx.Fatal().Str("provider", cfg.PaymentProvider).Msg("unknown payment provider")
		return nil
	}
}
