package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/app/provider"
	"partners_lounge/internal/app/service"
	"partners_lounge/internal/config"
	"partners_lounge/internal/infrastructure/httpclient"
	"partners_lounge/internal/infrastructure/network/client"
	"partners_lounge/internal/infrastructure/restapi"
	"partners_lounge/internal/infrastructure/tokenloader"
	"partners_lounge/internal/pkg/logger"
	"partners_lounge/internal/pkg/metrics"
	"partners_lounge/internal/pkg/retry"
	"partners_lounge/internal/pkg/utils"
)

func main() {
	// Bootstrap logging until the configured zap logger exists.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if _, ok := logger.ParseLevel(cfg.Logging.Level); !ok {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	slog.SetDefault(logger.NewSlogBridge(zapLogger))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	registry, err := buildRegistry(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to build token registry", zap.Error(err))
	}
	zapLogger.Info("Token registry loaded", zap.Int("tokens", len(registry.Mints())))

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(promRegistry, "partners_lounge")

	indexer := client.NewHeliusClient(
		cfg.Indexer.BaseURL,
		cfg.Indexer.APIKey,
		time.Duration(cfg.Indexer.RequestTimeoutMillis)*time.Millisecond,
		cfg.Indexer.AssetsPageLimit,
		zapLogger,
		appMetrics,
	)

	attemptTimeout := time.Duration(cfg.PriceService.AttemptTimeoutMillis) * time.Millisecond
	priceSource := buildPriceSource(cfg, attemptTimeout, zapLogger, appMetrics)
	zapLogger.Info("Price source initialized", zap.String("provider", priceSource.Name()))

	tokenPriceService := service.NewTokenPriceService(
		priceSource,
		registry,
		retry.Policy{
			MaxAttempts:    cfg.PriceService.MaxAttempts,
			Step:           time.Duration(cfg.PriceService.BackoffStepMillis) * time.Millisecond,
			AttemptTimeout: attemptTimeout,
		},
		time.Duration(cfg.PriceService.CacheTTLSeconds)*time.Second,
		zapLogger,
		appMetrics,
	)

	holderService := service.NewHolderService(
		indexer,
		registry,
		tokenPriceService,
		service.HolderOptions{
			PageSize:  cfg.Indexer.PageSize,
			PageDelay: cfg.Indexer.PageDelay(),
			MaxPages:  cfg.Indexer.MaxPages,
		},
		zapLogger,
		appMetrics,
	)
	portfolioService := service.NewPortfolioService(
		indexer,
		registry,
		tokenPriceService,
		cfg.PriceService.MaxConcurrentPriceLookups,
		zapLogger,
	)

	gin.SetMode(gin.ReleaseMode)
	router := restapi.SetupRouter(restapi.Handlers{
		Portfolio: restapi.NewPortfolioHandler(portfolioService, cfg.Leaderboard.DAOAddress),
		Holder:    restapi.NewHolderHandler(holderService, cfg.Leaderboard.DefaultMint, cfg.Leaderboard.Threshold()),
		Token:     restapi.NewTokenHandler(registry, tokenPriceService, cfg.PriceService.MaxConcurrentPriceLookups),
	}, restapi.RouterOptions{
		Logger:       zapLogger,
		Metrics:      appMetrics,
		Gatherer:     promRegistry,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}

// buildRegistry merges the tokens file with inline tokens; inline entries come last.
func buildRegistry(cfg *config.Config) (port.TokenRegistry, error) {
	tokens, err := tokenloader.LoadTokens(cfg.Registry.TokensFile)
	if err != nil {
		return nil, err
	}
	tokens = append(tokens, cfg.Registry.Tokens...)
	return provider.NewTokenRegistry(tokens)
}

func buildPriceSource(cfg *config.Config, timeout time.Duration, l *zap.Logger, m *metrics.Metrics) port.PriceSource {
	if cfg.PriceService.Provider == config.PriceProviderDEXScreener {
		return httpclient.NewDEXScreenerClient(
			cfg.DEXScreener.BaseURL,
			cfg.DEXScreener.ChainID,
			timeout,
			cfg.DEXScreener.MaxTokensPerRequest,
			l,
			m,
		)
	}
	return httpclient.NewCoinGeckoClient(
		cfg.PriceService.BaseURL,
		cfg.PriceService.APIKey,
		cfg.PriceService.APIKeyHeader,
		timeout,
		l,
		m,
	)
}
