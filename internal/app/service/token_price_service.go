package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
	"partners_lounge/internal/pkg/retry"
)

// tokenPriceServiceImpl resolves spot prices through one PriceSource with bounded retries.
type tokenPriceServiceImpl struct {
	source   port.PriceSource
	registry port.TokenRegistry
	policy   retry.Policy
	prices   *cache.Cache // nil when caching is disabled
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewTokenPriceService creates the price oracle. A cacheTTL of 0 disables caching so
// every lookup reaches the provider.
func NewTokenPriceService(
	source port.PriceSource,
	registry port.TokenRegistry,
	policy retry.Policy,
	cacheTTL time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) port.TokenPriceService {
	s := &tokenPriceServiceImpl{
		source:   source,
		registry: registry,
		policy:   policy,
		logger:   logger.Named("TokenPriceService"),
		metrics:  m,
	}
	if cacheTTL > 0 {
		s.prices = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// GetTokenPrice prices a registry mint. Unknown mints and mints without a price id are 0
// without a provider call.
func (s *tokenPriceServiceImpl) GetTokenPrice(ctx context.Context, mint string) float64 {
	info, ok := s.registry.Lookup(mint)
	if !ok {
		s.logger.Debug("Mint not in registry, price is 0", zap.String("mint", mint))
		return 0
	}
	return s.GetPrice(ctx, s.source.PriceID(info))
}

// GetTokenPrices prices several registry mints concurrently, at most limit at a time.
func (s *tokenPriceServiceImpl) GetTokenPrices(ctx context.Context, mints []string, limit int) map[string]float64 {
	out := make(map[string]float64, len(mints))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, mint := range mints {
		mint := mint
		g.Go(func() error {
			price := s.GetTokenPrice(gctx, mint)
			mu.Lock()
			out[mint] = price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// GetPrice returns the USD spot price for priceID, or 0 when it cannot be determined.
// It never returns a negative, NaN or infinite price.
func (s *tokenPriceServiceImpl) GetPrice(ctx context.Context, priceID string) float64 {
	if priceID == "" {
		return 0
	}

	cacheKey := s.source.Name() + ":" + priceID
	if s.prices != nil {
		if cached, found := s.prices.Get(cacheKey); found {
			if p, ok := cached.(float64); ok {
				return p
			}
		}
	}

	var price float64
	err := retry.Do(ctx, s.policy, entity.IsTransient,
		func(attemptCtx context.Context) error {
			p, err := s.source.FetchPriceUSD(attemptCtx, priceID)
			if err != nil {
				return err
			}
			price = p
			return nil
		},
		func(attempt int, err error, wait time.Duration) {
			s.logger.Debug("Price attempt failed, retrying",
				zap.String("provider", s.source.Name()),
				zap.String("priceId", priceID),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		},
	)
	if err != nil {
		fields := []zap.Field{
			zap.String("provider", s.source.Name()),
			zap.String("priceId", priceID),
			zap.Error(err),
		}
		if errors.Is(err, entity.ErrPriceUnavailable) {
			s.logger.Warn("No price available, using 0", fields...)
		} else {
			s.logger.Warn("Price lookup failed, using 0", fields...)
		}
		s.metrics.IncPriceFallback(s.source.Name())
		return 0
	}

	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		s.logger.Warn("Provider returned an unusable price, using 0",
			zap.String("provider", s.source.Name()),
			zap.String("priceId", priceID),
			zap.Float64("price", price))
		s.metrics.IncPriceFallback(s.source.Name())
		return 0
	}

	if s.prices != nil && price > 0 {
		s.prices.Set(cacheKey, price, cache.DefaultExpiration)
	}
	return price
}
