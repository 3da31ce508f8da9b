package main

import (
	"context"

	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/application"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/httpapi"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/memory"
	auctionpg "github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/postgres"
	auctionws "github.com/BhavanCharlie/LMA-CrystalTrade/internal/auction/infra/websocket"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/audit"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/clock"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/config"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/db"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/db/migrations"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/httpserver"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/lock"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/logger"
	"github.com/BhavanCharlie/LMA-CrystalTrade/internal/shared/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("starting loan auction engine")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.NeedsPostgres() {
		if err := migrations.Run(cfg.PostgresDSN()); err != nil {
			log.Fatal("database migration failed", zap.Error(err))
		}
		pool, err = db.NewPostgresPool(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()
	}

	var sink audit.Sink
	switch cfg.AuditSink {
	case "postgres":
		sink = audit.NewPostgresSink(pool)
	case "amqp":
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			log.Fatal("AMQP connection failed", zap.Error(err))
		}
		defer conn.Close()
		ch, err := conn.Channel()
		if err != nil {
			log.Fatal("AMQP channel failed", zap.Error(err))
		}
		sink, err = audit.NewAMQPSink(ch)
		if err != nil {
			log.Fatal("AMQP audit sink setup failed", zap.Error(err))
		}
	default:
		sink = audit.NewZapSink()
	}

	var archiver application.Archiver = application.NopArchiver{}
	if cfg.ArchiveEnabled {
		archiver = auctionpg.NewArchiver(pool)
	}

	clk := clock.NewReal()
	registry := memory.NewRegistry(clk)
	locks := lock.NewKeyedMutex(cfg.LockTimeout)

	service := application.NewService(
		application.NewCreateAuctionUseCase(registry, sink, clk),
		application.NewPlaceBidUseCase(registry, locks, sink, clk),
		application.NewGetAuctionUseCase(registry),
		application.NewLeaderboardUseCase(registry, cfg.LeaderboardSize),
		application.NewCloseAuctionUseCase(registry, locks, sink, archiver, clk),
	)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	wsHandler := auctionws.NewAuctionWSHandler(service, hub)
	go wsHandler.ListenForMessages(ctx)

	server := httpserver.NewServer()
	httpapi.NewHandler(service, wsHandler).Register(server.App())
	wsHandler.Register(ctx, server.App())

	if err := server.Start(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
