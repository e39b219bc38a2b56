package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rmachado/sportsbook-backend/internal/auth"
	"github.com/rmachado/sportsbook-backend/internal/bet"
	bpub "github.com/rmachado/sportsbook-backend/internal/bet/producer"
	brepo "github.com/rmachado/sportsbook-backend/internal/bet/repo"
	crepo "github.com/rmachado/sportsbook-backend/internal/casino/repo"
	"github.com/rmachado/sportsbook-backend/internal/httpapi"
	"github.com/rmachado/sportsbook-backend/internal/livefeed"
	mcache "github.com/rmachado/sportsbook-backend/internal/match/cache"
	mrepo "github.com/rmachado/sportsbook-backend/internal/match/repo"
	sharedcache "github.com/rmachado/sportsbook-backend/internal/shared/cache"
	"github.com/rmachado/sportsbook-backend/internal/shared/config"
	"github.com/rmachado/sportsbook-backend/internal/shared/db"
	sharedkafka "github.com/rmachado/sportsbook-backend/internal/shared/kafka"
	"github.com/rmachado/sportsbook-backend/internal/shared/logger"
	"github.com/rmachado/sportsbook-backend/internal/shared/metrics"
	urepo "github.com/rmachado/sportsbook-backend/internal/user/repo"
	"github.com/rmachado/sportsbook-backend/internal/ws"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic bet_placed)
	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// repositórios
	users := urepo.NewPostgres(pg)
	matches := mrepo.NewPostgres(pg)
	betLedger := brepo.NewPostgres(pg)
	games := crepo.NewPostgres(pg)
	oddsCache := mcache.New(rdb)

	// serviços
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.ResetTokenTTL)
	authSvc := auth.NewService(log, users, tokens)

	publ := bpub.NewKafkaPublisher(writer, cfg.TopicBetPlaced)
	betSvc := bet.NewService(log, matches, betLedger, publ)
	betSvc.OnPlaced = func() { metrics.BetsPlaced.Inc() }
	betSvc.OnRejected = func(reason string) { metrics.BetsRejected.WithLabelValues(reason).Inc() }

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// WebSocket de partidas ao vivo, alimentado pelo Pub/Sub do Redis
	hub := ws.NewHub(nil)
	ws.StartRedisSubscriber(ctx, log, rdb, cfg.RedisPubSubChannel, hub)

	// Poller que publica snapshots das partidas ao vivo
	poller := &livefeed.Poller{
		Log:         log,
		Matches:     matches,
		Broadcaster: livefeed.NewRedisBroadcaster(rdb),
		Channel:     cfg.RedisPubSubChannel,
		Interval:    cfg.LiveFeedInterval,
		OnPublish:   func() { metrics.LiveFeedPublishes.Inc() },
	}
	go poller.Run(ctx)

	// metrics/health numa porta separada
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(hctx context.Context) error {
		if err := pg.PingContext(hctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := rdb.Ping(hctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	// HTTP público
	api := httpapi.NewServer(log, authSvc, betSvc, matches, oddsCache, games, hub)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	go func() {
		log.Info("api listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()

	// shutdown gracioso: para de aceitar conexões e espera as em andamento
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = apiSrv.Shutdown(shCtx)
	_ = metricsSrv.Shutdown(shCtx)
	log.Info("api stopped")
}
