package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/cache"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/bankroll/service"
	"github.com/radieske/bets-core/internal/projector/consumer"
	"github.com/radieske/bets-core/internal/projector/pubsub"
	sharedcache "github.com/radieske/bets-core/internal/shared/cache"
	"github.com/radieske/bets-core/internal/shared/config"
	"github.com/radieske/bets-core/internal/shared/kafka"
	"github.com/radieske/bets-core/internal/shared/logger"
	"github.com/radieske/bets-core/internal/shared/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: storage e Redis
	store, conn, err := repo.Open(ctx, cfg.StoreDriver, cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatal("store", zap.Error(err))
	}
	defer conn.Close()

	redisClient, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// O projector recalcula o dashboard e grava no mesmo cache lido pelo bankroll-service
	ledger := service.NewLedger(log, store,
		service.WithCache(cache.NewRedisCache(redisClient, cfg.DashboardCacheTTL)),
		service.WithMetrics(metrics.NewLedger(prometheus.DefaultRegisterer)),
	)

	// Consumer Kafka (consumer group ledger-projector) e DLQ
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicLedgerEvents, cfg.ProjectorGroupID)
	defer reader.Close()
	dlq := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicLedgerEventsDLQ)
	defer dlq.Close()

	m := metrics.NewProjector(prometheus.DefaultRegisterer)

	proc := &consumer.Processor{
		Log:          log,
		Reader:       reader,
		Refresher:    ledger,
		Broadcaster:  pubsub.NewRedisBroadcaster(redisClient),
		Channel:      cfg.RedisPubSubChannel,
		DLQ:          dlq,
		OnConsumed:   m.Consumed.Inc,
		OnRefreshed:  m.Refreshed.Inc,
		OnBroadcast:  m.Broadcasted.Inc,
		OnDeadLetter: m.DeadLetters.Inc,
		OnError:      func(stage string) { m.Errors.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, metrics.All(
		metrics.Named("db", store.Ping),
		metrics.Named("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
	))
	defer metricsSrv.Close()

	log.Info("ledger-projector started", zap.String("topic", cfg.TopicLedgerEvents), zap.String("group", cfg.ProjectorGroupID))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("ledger-projector stopped")
}
