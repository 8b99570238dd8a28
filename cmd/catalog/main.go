package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	catalogapp "github.com/dwikikusuma/videoshop-cart/internal/catalog/app"
	cgrpc "github.com/dwikikusuma/videoshop-cart/internal/catalog/grpc"
	"github.com/dwikikusuma/videoshop-cart/internal/catalog/infra/natsbus"
	cpg "github.com/dwikikusuma/videoshop-cart/internal/catalog/infra/postgres"
	"github.com/dwikikusuma/videoshop-cart/pkg/broker"
	"github.com/dwikikusuma/videoshop-cart/pkg/config"
	"github.com/dwikikusuma/videoshop-cart/pkg/logger"
	"github.com/dwikikusuma/videoshop-cart/pkg/postgres"
	"github.com/dwikikusuma/videoshop-cart/pkg/shutdown"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "catalog", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db := mustDB(cfg, log)
	defer db.Close()

	opts := []catalogapp.Option{catalogapp.WithLogger(log)}
	if cfg.NatsURL != "" {
		nc, err := broker.Connect(cfg.NatsURL, "catalog", log)
		if err != nil {
			log.Error("nats connect failed", slog.Any("err", err))
			os.Exit(1)
		}
		defer nc.Close()
		opts = append(opts, catalogapp.WithEvents(natsbus.NewPublisher(nc)))
	} else {
		log.Info("NATS_URL not set, stock events disabled")
	}

	catalogSvc := catalogapp.NewService(cpg.NewProductRepo(db), opts...)

	addr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", addr))
		os.Exit(1)
	}

	grpcServer := grpc.NewServer()
	catalogv1.RegisterCatalogServiceServer(grpcServer, cgrpc.NewServer(catalogSvc))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc starting", slog.String("addr", addr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")
	healthSrv.Shutdown()

	shutdown.Graceful(log, "grpc", 10*time.Second, grpcServer.GracefulStop, grpcServer.Stop)

	wg.Wait()
	log.Info("bye")
}

func mustDB(cfg config.Config, log *slog.Logger) *sql.DB {
	db, err := postgres.Open(postgres.Config{
		Host: cfg.Postgres.Host,
		Port: cfg.Postgres.Port,
		User: cfg.Postgres.User,
		Pass: cfg.Postgres.Pass,
		DB:   cfg.Postgres.DB,
	})
	if err != nil {
		log.Error("db open failed", slog.Any("err", err))
		os.Exit(1)
	}
	return db
}
