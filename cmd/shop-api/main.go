package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/catalog"
	"github.com/MikeMC777/tienda-ecom/internal/config"
	"github.com/MikeMC777/tienda-ecom/internal/grpcx"
	"github.com/MikeMC777/tienda-ecom/internal/logger"
	"github.com/MikeMC777/tienda-ecom/internal/order"
	"github.com/MikeMC777/tienda-ecom/internal/shop"
	"github.com/MikeMC777/tienda-ecom/internal/store"
	"github.com/MikeMC777/tienda-ecom/internal/telemetry"
	"github.com/MikeMC777/tienda-ecom/internal/user"
)

// @title       Tienda shop API
// @version     1.0
// @description Item catalog, carts and orders.
// @BasePath    /api
func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load(log)
	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelService,
		Endpoint:    cfg.OtelEndpoint,
	}, log)
	if err != nil {
		log.Fatal("otel init", "error", err)
	}

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("db open", "error", err)
	}
	defer st.Close()
	if err := store.Migrate(ctx, st.DB); err != nil {
		log.Fatal("db migrate", "error", err)
	}
	if cfg.SeedItems {
		n, err := store.SeedItems(ctx, st.DB, store.DefaultItems())
		if err != nil {
			log.Fatal("seed items", "error", err)
		}
		if n > 0 {
			log.Info("seeded catalog", "items", n)
		}
	}

	svc := shop.NewService(shop.Deps{
		Items:  catalog.NewGormRepo(st.DB),
		Carts:  cart.NewGormRepo(st.DB),
		Orders: order.NewGormRepo(st.DB),
		Users:  user.NewGormRepo(st.DB),
		Hasher: user.NewBcryptHasher(cfg.BcryptCost),
		Log:    log,
	})

	opts := routerOptions{
		CORSOrigins: cfg.CORSOrigins,
		Ping:        func(c *gin.Context) error { return st.Ping(c.Request.Context()) },
	}
	if cfg.OtelEnabled {
		opts.Tracing = cfg.OtelService
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(svc, log, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	health := grpcx.NewHealthServer(st.Ping, 10*time.Second, log)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal("grpc listen", "addr", cfg.GRPCAddr, "error", err)
	}
	go func() {
		if err := health.Serve(ctx, lis); err != nil {
			log.Error("grpc health stopped", "error", err)
		}
	}()

	go func() {
		log.Info("shop-api listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	health.Stop()
	if err := shutdownTracing(sctx); err != nil {
		log.Error("otel shutdown", "error", err)
	}
}
