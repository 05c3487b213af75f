package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
)

func newCoinGecko(t *testing.T, handler http.HandlerFunc) (*coinGeckoClientImpl, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	m := metrics.New(prometheus.NewRegistry(), "test")
	c := NewCoinGeckoClient(srv.URL, "secret", "x-cg-demo-api-key", time.Second, zap.NewNop(), m)
	return c.(*coinGeckoClientImpl), m
}

func TestCoinGecko_FetchPriceUSD(t *testing.T) {
	c, m := newCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "ai16z", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "secret", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"ai16z":{"usd":0.4321}}`))
	})

	price, err := c.FetchPriceUSD(context.Background(), "ai16z")
	require.NoError(t, err)
	assert.InDelta(t, 0.4321, price, 1e-12)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExternalCalls.WithLabelValues("coingecko", "simple_price", metrics.OutcomeSuccess)))
}

func TestCoinGecko_RateLimitedIsTransient(t *testing.T) {
	var calls atomic.Int32
	c, m := newCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchPriceUSD(context.Background(), "ai16z")
	require.Error(t, err)
	assert.True(t, entity.IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExternalCalls.WithLabelValues("coingecko", "simple_price", metrics.OutcomeRateLimited)))
}

func TestCoinGecko_ServerErrorIsNotTransient(t *testing.T) {
	c, _ := newCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.FetchPriceUSD(context.Background(), "ai16z")
	require.Error(t, err)
	assert.False(t, entity.IsTransient(err))
}

func TestCoinGecko_MissingID(t *testing.T) {
	c, _ := newCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.FetchPriceUSD(context.Background(), "ai16z")
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrPriceUnavailable)
}

func TestCoinGecko_TimeoutIsTransient(t *testing.T) {
	c, _ := newCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ai16z":{"usd":1}}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.FetchPriceUSD(ctx, "ai16z")
	require.Error(t, err)
	assert.True(t, entity.IsTransient(err))
}

func TestCoinGecko_PriceIDComesFromRegistry(t *testing.T) {
	c, _ := newCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t, "solana", c.PriceID(entity.TokenInfo{Mint: entity.WrappedSOLMint, PriceID: "solana"}))
	assert.Equal(t, "coingecko", c.Name())
}
