package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsOnIsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "test")

	m.ObserveExternalCall("coingecko", "simple_price", OutcomeRateLimited, 10*time.Millisecond)
	m.ObserveExternalCall("coingecko", "simple_price", OutcomeSuccess, 10*time.Millisecond)
	m.IncPriceFallback("coingecko")
	m.ObserveHolderPage(1000)
	m.ObserveHolderPage(400)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExternalCalls.WithLabelValues("coingecko", "simple_price", OutcomeRateLimited)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PriceFallbacks.WithLabelValues("coingecko")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HolderPagesFetched))
	assert.Equal(t, 1400.0, testutil.ToFloat64(m.HoldersScanned))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveExternalCall("helius", "getTokenAccounts", OutcomeError, time.Second)
		m.IncPriceFallback("coingecko")
		m.ObserveHolderPage(3)
		m.ObserveAPIRequest("/healthz", "200", time.Millisecond)
	})
}
