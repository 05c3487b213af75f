package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
	"partners_lounge/internal/pkg/retry"
)

var fastPolicy = retry.Policy{MaxAttempts: 3, Step: time.Millisecond, AttemptTimeout: 50 * time.Millisecond}

func rateLimited(context.Context, int) (float64, error) {
	return 0, &entity.TransientProviderError{Provider: "fake", StatusCode: 429, Cause: errors.New("slow down")}
}

func TestGetPrice_RateLimitedThreeTimes(t *testing.T) {
	src := &fakeSource{fetch: rateLimited}
	m := metrics.New(prometheus.NewRegistry(), "test")
	svc := NewTokenPriceService(src, testRegistry(t, entity.TokenInfo{Mint: mintA, PriceID: "ai16z"}), fastPolicy, 0, zap.NewNop(), m)

	price := svc.GetPrice(context.Background(), "ai16z")

	assert.Zero(t, price)
	assert.Equal(t, 3, src.Calls())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceFallbacks.WithLabelValues("fake")))
}

func TestGetPrice_RecoversAfterRateLimit(t *testing.T) {
	src := &fakeSource{fetch: func(ctx context.Context, call int) (float64, error) {
		if call < 3 {
			return rateLimited(ctx, call)
		}
		return 2.5, nil
	}}
	svc := NewTokenPriceService(src, testRegistry(t, entity.TokenInfo{Mint: mintA, PriceID: "ai16z"}), fastPolicy, 0, zap.NewNop(), nil)

	assert.Equal(t, 2.5, svc.GetPrice(context.Background(), "ai16z"))
	assert.Equal(t, 3, src.Calls())
}

func TestGetPrice_NonTransientFailureIsNotRetried(t *testing.T) {
	src := &fakeSource{fetch: func(context.Context, int) (float64, error) {
		return 0, errors.New("status 500")
	}}
	svc := NewTokenPriceService(src, testRegistry(t, entity.TokenInfo{Mint: mintA, PriceID: "ai16z"}), fastPolicy, 0, zap.NewNop(), nil)

	assert.Zero(t, svc.GetPrice(context.Background(), "ai16z"))
	assert.Equal(t, 1, src.Calls())
}

func TestGetPrice_AttemptTimeoutIsRetried(t *testing.T) {
	src := &fakeSource{fetch: func(ctx context.Context, _ int) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}}
	policy := retry.Policy{MaxAttempts: 3, Step: time.Millisecond, AttemptTimeout: 5 * time.Millisecond}
	svc := NewTokenPriceService(src, testRegistry(t, entity.TokenInfo{Mint: mintA, PriceID: "ai16z"}), policy, 0, zap.NewNop(), nil)

	assert.Zero(t, svc.GetPrice(context.Background(), "ai16z"))
	assert.Equal(t, 3, src.Calls())
}

func TestGetPrice_RejectsUnusableValues(t *testing.T) {
	for name, bad := range map[string]float64{"nan": math.NaN(), "inf": math.Inf(1), "negative": -1} {
		t.Run(name, func(t *testing.T) {
			src := &fakeSource{fetch: func(context.Context, int) (float64, error) { return bad, nil }}
			svc := NewTokenPriceService(src, testRegistry(t, entity.TokenInfo{Mint: mintA, PriceID: "ai16z"}), fastPolicy, 0, zap.NewNop(), nil)
			assert.Zero(t, svc.GetPrice(context.Background(), "ai16z"))
		})
	}
}

func TestGetTokenPrice_MissingMappingSkipsProvider(t *testing.T) {
	src := &fakeSource{fetch: func(context.Context, int) (float64, error) { return 1, nil }}
	reg := testRegistry(t,
		entity.TokenInfo{Mint: mintA, PriceID: "ai16z"},
		entity.TokenInfo{Mint: mintB},
	)
	svc := NewTokenPriceService(src, reg, fastPolicy, 0, zap.NewNop(), nil)

	assert.Zero(t, svc.GetTokenPrice(context.Background(), mintB))
	assert.Zero(t, svc.GetTokenPrice(context.Background(), mintC))
	assert.Zero(t, svc.GetPrice(context.Background(), ""))
	assert.Equal(t, 0, src.Calls())

	assert.Equal(t, 1.0, svc.GetTokenPrice(context.Background(), mintA))
	assert.Equal(t, 1, src.Calls())
}

func TestGetPrice_CacheIsOptIn(t *testing.T) {
	reg := testRegistry(t, entity.TokenInfo{Mint: mintA, PriceID: "ai16z"})

	uncachedSrc := &fakeSource{fetch: func(context.Context, int) (float64, error) { return 3, nil }}
	uncached := NewTokenPriceService(uncachedSrc, reg, fastPolicy, 0, zap.NewNop(), nil)
	uncached.GetPrice(context.Background(), "ai16z")
	uncached.GetPrice(context.Background(), "ai16z")
	assert.Equal(t, 2, uncachedSrc.Calls())

	cachedSrc := &fakeSource{fetch: func(context.Context, int) (float64, error) { return 3, nil }}
	cached := NewTokenPriceService(cachedSrc, reg, fastPolicy, time.Minute, zap.NewNop(), nil)
	assert.Equal(t, 3.0, cached.GetPrice(context.Background(), "ai16z"))
	assert.Equal(t, 3.0, cached.GetPrice(context.Background(), "ai16z"))
	assert.Equal(t, 1, cachedSrc.Calls())
}

func TestGetTokenPrices_FansOut(t *testing.T) {
	src := &fakeSource{fetch: func(context.Context, int) (float64, error) { return 4, nil }}
	reg := testRegistry(t,
		entity.TokenInfo{Mint: mintA, PriceID: "ai16z"},
		entity.TokenInfo{Mint: mintB, PriceID: "usd-coin"},
	)
	svc := NewTokenPriceService(src, reg, fastPolicy, 0, zap.NewNop(), nil)

	prices := svc.GetTokenPrices(context.Background(), []string{mintA, mintB, mintC}, 2)
	assert.Equal(t, map[string]float64{mintA: 4, mintB: 4, mintC: 0}, prices)
	assert.Equal(t, 2, src.Calls())
}
