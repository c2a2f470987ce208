package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/bankroll/cache"
	bhttp "github.com/radieske/bets-core/internal/bankroll/http"
	kpub "github.com/radieske/bets-core/internal/bankroll/producer"
	"github.com/radieske/bets-core/internal/bankroll/repo"
	"github.com/radieske/bets-core/internal/bankroll/service"
	"github.com/radieske/bets-core/internal/bankroll/ws"
	sharedcache "github.com/radieske/bets-core/internal/shared/cache"
	"github.com/radieske/bets-core/internal/shared/config"
	"github.com/radieske/bets-core/internal/shared/kafka"
	"github.com/radieske/bets-core/internal/shared/logger"
	"github.com/radieske/bets-core/internal/shared/metrics"
)

const localCacheSize = 1024

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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Storage (Postgres ou SQLite) + schema
	store, conn, err := repo.Open(ctx, cfg.StoreDriver, cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatal("store", zap.Error(err))
	}
	defer conn.Close()

	opts := []service.Option{service.WithMetrics(metrics.NewLedger(prometheus.DefaultRegisterer))}
	health := []metrics.HealthFunc{metrics.Named("db", store.Ping)}

	// Redis: cache do dashboard + Pub/Sub do WebSocket. Sem Redis, cache em memória.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if rdb, err = sharedcache.ConnectRedis(ctx, cfg.RedisAddr); err != nil {
			log.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		opts = append(opts, service.WithCache(cache.NewRedisCache(rdb, cfg.DashboardCacheTTL)))
		health = append(health, metrics.Named("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() }))
	} else {
		log.Info("redis disabled, using in-memory dashboard cache")
		opts = append(opts, service.WithCache(cache.NewLocalCache(localCacheSize, cfg.DashboardCacheTTL)))
	}

	// Kafka writer (topic ledger_events)
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicLedgerEvents)
		defer writer.Close()
		opts = append(opts, service.WithPublisher(kpub.NewKafkaPublisher(writer)))
	} else {
		log.Info("kafka disabled, ledger events will not be published")
	}

	ledger := service.NewLedger(log, store, opts...)

	// WebSocket do dashboard, alimentado pelo projector via Redis Pub/Sub
	var wsHandler http.Handler
	if rdb != nil {
		hub := ws.NewHub(log, originAllowed(cfg.CORSAllowedOrigins))
		ws.StartRedisSubscriber(ctx, log, rdb, cfg.RedisPubSubChannel, hub)
		wsHandler = hub
	}

	api := bhttp.NewAPI(log, ledger, wsHandler)
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, metrics.All(health...))

	go func() {
		log.Info("bankroll-service listening", zap.String("addr", apiSrv.Addr),
			zap.String("store", string(store.Dialect())))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("bankroll-service shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}

// originAllowed: "*" libera tudo; caso contrário compara o header Origin
func originAllowed(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}
