package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/mazraaty/backend/api/routes"
	"github.com/mazraaty/backend/internal/addresses"
	"github.com/mazraaty/backend/internal/auth"
	"github.com/mazraaty/backend/internal/cart"
	"github.com/mazraaty/backend/internal/catalog"
	"github.com/mazraaty/backend/internal/checkout"
	"github.com/mazraaty/backend/internal/customers"
	"github.com/mazraaty/backend/internal/inventory"
	"github.com/mazraaty/backend/internal/invoices"
	"github.com/mazraaty/backend/internal/orders"
	"github.com/mazraaty/backend/internal/stocknotify"
	"github.com/mazraaty/backend/internal/users"
	"github.com/mazraaty/backend/pkg/auth/session"
	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/mailer"
	"github.com/mazraaty/backend/pkg/migrate"
	"github.com/mazraaty/backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	addressRepo := addresses.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	stockNotifyRepo := stocknotify.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(inventoryRepo, dbClient, logg)
	if err != nil {
		fatal(logg, "inventory service", err)
	}
	catalogService, err := catalog.NewService(catalogRepo, dbClient, inventoryService, cfg.Currency)
	if err != nil {
		fatal(logg, "catalog service", err)
	}
	cartService, err := cart.NewService(cartRepo, catalogRepo, cfg.Currency)
	if err != nil {
		fatal(logg, "cart service", err)
	}
	addressService, err := addresses.NewService(addressRepo, dbClient)
	if err != nil {
		fatal(logg, "address service", err)
	}
	orderService, err := orders.NewService(orderRepo, inventoryService, dbClient, logg, cfg.Currency)
	if err != nil {
		fatal(logg, "order service", err)
	}
	checkoutService, err := checkout.NewService(cartRepo, catalogRepo, orderRepo, inventoryService, addressService, dbClient, logg, cfg.Currency, cfg.Shipping)
	if err != nil {
		fatal(logg, "checkout service", err)
	}
	invoiceService, err := invoices.NewService(orderRepo, cfg.Store, cfg.Currency)
	if err != nil {
		fatal(logg, "invoice service", err)
	}
	authService, err := auth.NewService(usersRepo, sessionManager, cfg.JWT, cfg.Password, logg)
	if err != nil {
		fatal(logg, "auth service", err)
	}
	customerService, err := customers.NewService(usersRepo, logg)
	if err != nil {
		fatal(logg, "customer service", err)
	}
	stockNotifyService, err := stocknotify.NewService(stockNotifyRepo, catalogRepo, mailer.New(cfg.SMTP, logg), logg, cfg.Store)
	if err != nil {
		fatal(logg, "stock notify service", err)
	}
	inventoryService.SetNotifier(stockNotifyService)
	orderService.SetNotifier(stockNotifyService)

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			catalogService,
			cartService,
			checkoutService,
			addressService,
			orderService,
			invoiceService,
			stockNotifyService,
			customerService,
			inventoryService,
		),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}

func fatal(logg *logger.Logger, what string, err error) {
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
