package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/devshop-kr/devshop-backend/api/routes"
	"github.com/devshop-kr/devshop-backend/internal/auth"
	"github.com/devshop-kr/devshop-backend/internal/bootstrap"
	"github.com/devshop-kr/devshop-backend/internal/cart"
	"github.com/devshop-kr/devshop-backend/internal/catalog"
	"github.com/devshop-kr/devshop-backend/internal/identity"
	"github.com/devshop-kr/devshop-backend/internal/orders"
	"github.com/devshop-kr/devshop-backend/internal/posts"
	"github.com/devshop-kr/devshop-backend/internal/reviews"
	"github.com/devshop-kr/devshop-backend/internal/users"
	"github.com/devshop-kr/devshop-backend/pkg/auth/session"
	"github.com/devshop-kr/devshop-backend/pkg/config"
	"github.com/devshop-kr/devshop-backend/pkg/db"
	"github.com/devshop-kr/devshop-backend/pkg/logger"
	"github.com/devshop-kr/devshop-backend/pkg/metrics"
	"github.com/devshop-kr/devshop-backend/pkg/migrate"
	"github.com/devshop-kr/devshop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	reviewsRepo := reviews.NewRepository(dbClient.DB())
	postsRepo := posts.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	identityService, err := identity.NewService(identity.ServiceParams{
		Repo: identity.NewRepository(dbClient),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{Repo: usersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.ServiceParams{Repo: reviewsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	postsService, err := posts.NewService(posts.ServiceParams{Repo: postsRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create posts service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{Repo: cartRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{Repo: ordersRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	runner, err := bootstrap.NewRunner(bootstrap.RunnerParams{
		Users:          usersRepo,
		Catalog:        catalogRepo,
		Locker:         redisClient,
		Config:         cfg.Bootstrap,
		Flags:          cfg.FeatureFlags,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bootstrap runner", err)
		os.Exit(1)
	}
	if err := runner.Run(context.Background()); err != nil {
		// Startup continues; an unreachable seed is not fatal for serving traffic.
		logg.Error(context.Background(), "bootstrap finished with errors", err)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Identity:    identityService,
			Auth:        authService,
			Users:       usersService,
			Catalog:     catalogService,
			Reviews:     reviewsService,
			Posts:       postsService,
			Cart:        cartService,
			Orders:      ordersService,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
