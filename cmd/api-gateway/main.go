package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bets-core/internal/gateway"
	"github.com/radieske/bets-core/internal/shared/config"
	"github.com/radieske/bets-core/internal/shared/logger"
	"github.com/radieske/bets-core/internal/shared/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, _ := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer log.Sync()

	// target
	bankroll, err := gateway.Proxy(cfg.BankrollURL)
	if err != nil {
		log.Fatal("invalid BANKROLL_URL", zap.String("url", cfg.BankrollURL), zap.Error(err))
	}

	metrics.StartMetricsServer(log, cfg.MetricsPort, nil)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           gateway.Router(bankroll, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("api-gateway listening", zap.String("addr", srv.Addr), zap.String("bankroll", cfg.BankrollURL))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}
