package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesaeats/mesa-client/api/routes"
	"github.com/mesaeats/mesa-client/internal/auth"
	"github.com/mesaeats/mesa-client/internal/cart"
	"github.com/mesaeats/mesa-client/internal/demo"
	"github.com/mesaeats/mesa-client/internal/orders"
	syncsvc "github.com/mesaeats/mesa-client/internal/sync"
	"github.com/mesaeats/mesa-client/internal/vendors"
	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/config"
	"github.com/mesaeats/mesa-client/pkg/localstore"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/metrics"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "clientd"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "clientd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	storeClient, err := localstore.New(context.Background(), cfg.Store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open local store", err)
		os.Exit(1)
	}
	defer func() {
		if err := storeClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing local store", err)
		}
	}()
	repo := localstore.NewRepository(storeClient.DB())

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Warn(context.Background(), "redis unavailable, menu hot cache disabled")
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logg.Error(context.Background(), "error closing redis", err)
				}
			}()
		}
	}

	registry := prometheus.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(registry)

	// The backend client is built before the auth service but its 401 hook
	// must tear the session down, so the hook is bound late.
	var invalidate func()
	backendClient, err := backend.NewClient(cfg.Backend, logg,
		backend.WithMetrics(clientMetrics),
		backend.WithUnauthorizedHook(func() {
			if invalidate != nil {
				invalidate()
			}
		}),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	channel := realtime.NewChannel(cfg.Realtime, logg, realtime.WithMetrics(clientMetrics))

	cartStore := cart.NewStore()

	var hotCache vendors.HotCache
	if redisClient != nil {
		hotCache = redisClient
	}
	vendorStore, err := vendors.NewStore(vendors.StoreParams{
		Catalog:   backendClient,
		Snapshots: repo,
		Cache:     hotCache,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor store", err)
		os.Exit(1)
	}

	var gateway orders.Gateway = backendClient
	if cfg.Demo.OfflineDemo {
		logg.Warn(context.Background(), "offline demo gateway enabled, orders are simulated")
		gateway = demo.NewGateway()
	}

	authParams := auth.ServiceParams{
		Backend:  backendClient,
		Channel:  channel,
		Sessions: repo,
		Config:   cfg.Session,
		Logger:   logg,
	}
	authService, err := auth.NewService(authParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	invalidate = authService.Invalidate

	orderStore, err := orders.NewStore(orders.StoreParams{
		Gateway:  gateway,
		Emitter:  channel,
		Sessions: authService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order store", err)
		os.Exit(1)
	}

	authService.RegisterBinder(orderStore)
	authService.RegisterBinder(vendorStore)
	authService.SetRoomSource(orderStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"port": cfg.Local.Port,
	})

	if _, restored, err := authService.Restore(ctx); err != nil {
		logg.Error(ctx, "session restore failed", err)
	} else if restored {
		logg.Info(ctx, "session restored from disk")
	}

	if cfg.Sync.Enabled {
		reconcile, err := syncsvc.NewMenuReconcileJob(syncsvc.MenuReconcileJobParams{
			Logger:  logg,
			Catalog: backendClient,
			Store:   vendorStore,
		})
		if err != nil {
			logg.Error(ctx, "failed to create menu reconcile job", err)
			os.Exit(1)
		}
		syncService, err := syncsvc.NewService(syncsvc.ServiceParams{
			Logger:   logg,
			Registry: syncsvc.NewRegistry(reconcile),
			Metrics:  clientMetrics,
			Interval: cfg.Sync.Interval,
		})
		if err != nil {
			logg.Error(ctx, "failed to create sync service", err)
			os.Exit(1)
		}
		go func() {
			if err := syncService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "sync service stopped unexpectedly", err)
			}
		}()
	}

	server := &http.Server{
		Addr: "127.0.0.1:" + cfg.Local.Port,
		Handler: routes.NewRouter(cfg, logg, registry,
			authService, cartStore, vendorStore, orderStore),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(context.Background(), "error shutting down local api", err)
		}
		channel.Disconnect()
	}()

	logg.Info(ctx, "starting local api")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "local api stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "clientd shutting down gracefully")
}
