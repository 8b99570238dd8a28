package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	cartapp "github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/httpapi"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/infra/adapter"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/infra/natsbus"
	cartpg "github.com/dwikikusuma/videoshop-cart/internal/cart/infra/postgres"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/infra/rules"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/infra/sqlite"
	"github.com/dwikikusuma/videoshop-cart/pkg/broker"
	"github.com/dwikikusuma/videoshop-cart/pkg/config"
	"github.com/dwikikusuma/videoshop-cart/pkg/logger"
	"github.com/dwikikusuma/videoshop-cart/pkg/postgres"
	"github.com/dwikikusuma/videoshop-cart/pkg/shutdown"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/connectivity"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	if err := run(cfg, log); err != nil {
		log.Error("gateway stopped", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	storage, closer, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer closer.Close()

	policy, err := cartapp.ParsePriceChangePolicy(cfg.Cart.PriceChangePolicy)
	if err != nil {
		return err
	}

	discounts, err := rules.Load(cfg.Cart.DiscountRulesPath)
	if err != nil {
		return err
	}
	log.Info("discount rules loaded", slog.Int("codes", discounts.Len()))

	conn, err := adapter.DialCatalog(cfg.CatalogAddr)
	if err != nil {
		return err
	}
	defer conn.Close()
	catalog := adapter.NewCatalogClient(catalogv1.NewCatalogServiceClient(conn))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions := cartapp.NewSessions(cartapp.SessionsConfig{
		Store: cartapp.StoreConfig{
			Currency:           cfg.Cart.Currency,
			Shipping:           domain.ShippingPolicy{Fee: cfg.Cart.ShippingFee, FreeFrom: cfg.Cart.FreeShippingFrom},
			DefaultMaxQuantity: int32(cfg.Cart.DefaultMaxQty),
			PriceChangePolicy:  policy,
			SyncTimeout:        cfg.Cart.SyncTimeout,
		},
		SyncInterval: cfg.Cart.SyncInterval,
		IdleCarts:    cfg.Cart.IdleCarts,
	}, cartapp.Deps{
		Storage: storage,
		Stock:   catalog,
		Rules:   discounts,
		Logger:  log,
		Metrics: cartapp.NewMetrics(reg),
	})
	defer sessions.Close()

	if cfg.NatsURL != "" {
		nc, err := broker.Connect(cfg.NatsURL, "gateway", log)
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Close()

		sub, err := natsbus.NewSubscriber(sessions, log).Subscribe(nc)
		if err != nil {
			return err
		}
		defer func() { _ = sub.Drain() }()
	} else {
		log.Info("NATS_URL not set, relying on interval reconciliation only")
	}

	api := httpapi.NewHandler(sessions, catalog,
		httpapi.WithLogger(log),
		httpapi.WithErrorMapper(httpStatusFromGRPC),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpapi.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(httpapi.NewHTTPMetrics(reg).Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if conn.GetState() == connectivity.Shutdown {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/v1", api.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}
		shutdown.Graceful(log, "cart views", 5*time.Second, sessions.Close, nil)
		return nil
	})

	return g.Wait()
}

// openStorage picks the cart StateStorage named by CART_STORAGE.
func openStorage(cfg config.Config, log *slog.Logger) (cartapp.StateStorage, io.Closer, error) {
	switch cfg.Cart.Storage {
	case "postgres":
		db, err := postgres.Open(postgres.Config{
			Host: cfg.Postgres.Host,
			Port: cfg.Postgres.Port,
			User: cfg.Postgres.User,
			Pass: cfg.Postgres.Pass,
			DB:   cfg.Postgres.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Info("cart storage", slog.String("kind", "postgres"))
		return cartpg.NewStateRepo(db), db, nil
	case "sqlite", "":
		s, err := sqlite.Open(cfg.Cart.DBPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("cart storage", slog.String("kind", "sqlite"), slog.String("path", cfg.Cart.DBPath))
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown CART_STORAGE %q", cfg.Cart.Storage)
	}
}
