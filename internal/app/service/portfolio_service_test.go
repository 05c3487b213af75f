package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partners_lounge/internal/domain/entity"
)

func newPortfolioService(t *testing.T, idx *fakeIndexer, prices *fakePrices) *portfolioServiceImpl {
	t.Helper()
	reg := testRegistry(t,
		entity.TokenInfo{Mint: mintA, PriceID: "a", Decimals: 2, Symbol: "A"},
		entity.TokenInfo{Mint: mintB, PriceID: "b", Decimals: 6, Symbol: "B"},
		entity.TokenInfo{Mint: entity.WrappedSOLMint, PriceID: "solana", Decimals: 9, Symbol: "SOL"},
	)
	return NewPortfolioService(idx, reg, prices, 4, zap.NewNop()).(*portfolioServiceImpl)
}

func TestGetPortfolio_SingleTrackedHolding(t *testing.T) {
	idx := &fakeIndexer{balances: []entity.TokenBalance{
		{Mint: mintA, RawAmount: 100, Decimals: 2},
		{Mint: mintC, RawAmount: 50, Decimals: 0},
	}}
	prices := &fakePrices{byMint: map[string]float64{mintA: 2.5, mintC: 1000}}
	svc := newPortfolioService(t, idx, prices)

	summary, err := svc.GetPortfolio(context.Background(), ownerDA, []string{mintA, mintB})
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	item := summary.Items[0]
	assert.Equal(t, mintA, item.Mint)
	assert.Equal(t, "A", item.Symbol)
	assert.InDelta(t, 1.0, item.UIAmount, 1e-12)
	assert.InDelta(t, 2.5, item.ValueUSD, 1e-12)
	assert.InDelta(t, 100, item.AllocationPercent, 1e-9)
	assert.InDelta(t, 2.5, summary.TotalValueUSD, 1e-12)
	assert.Equal(t, 1, summary.ItemCount)
	assert.NotContains(t, prices.lookups, mintC, "untracked tokens are never priced")
}

func TestGetPortfolio_RankedAndConsistent(t *testing.T) {
	idx := &fakeIndexer{balances: []entity.TokenBalance{
		{Mint: mintB, RawAmount: 3_000_000, Decimals: 6},
		{Mint: mintA, RawAmount: 1000, Decimals: 2},
		{Mint: entity.WrappedSOLMint, RawAmount: 2_000_000_000, Decimals: 9},
	}}
	prices := &fakePrices{byMint: map[string]float64{mintA: 0.1, mintB: 1, entity.WrappedSOLMint: 150}}
	svc := newPortfolioService(t, idx, prices)

	summary, err := svc.GetPortfolio(context.Background(), ownerDA, nil)
	require.NoError(t, err)

	require.Len(t, summary.Items, 3)
	assert.Equal(t, []string{entity.WrappedSOLMint, mintB, mintA},
		[]string{summary.Items[0].Mint, summary.Items[1].Mint, summary.Items[2].Mint})

	var total, pct float64
	for _, it := range summary.Items {
		total += it.ValueUSD
		pct += it.AllocationPercent
	}
	assert.InDelta(t, 304, summary.TotalValueUSD, 1e-9)
	assert.InDelta(t, total, summary.TotalValueUSD, 1e-9)
	assert.InDelta(t, 100, pct, 1e-9)
}

func TestGetPortfolio_ZeroPriceKeepsItemsWithZeroAllocation(t *testing.T) {
	idx := &fakeIndexer{balances: []entity.TokenBalance{
		{Mint: mintA, RawAmount: 100, Decimals: 2},
		{Mint: mintB, RawAmount: 0, Decimals: 6},
	}}
	svc := newPortfolioService(t, idx, &fakePrices{})

	summary, err := svc.GetPortfolio(context.Background(), ownerDA, nil)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1, "zero balances are dropped")
	assert.Zero(t, summary.TotalValueUSD)
	assert.Zero(t, summary.Items[0].AllocationPercent)
}

func TestGetPortfolio_NoTrackedBalances(t *testing.T) {
	idx := &fakeIndexer{balances: []entity.TokenBalance{{Mint: mintC, RawAmount: 5}}}
	svc := newPortfolioService(t, idx, &fakePrices{})

	summary, err := svc.GetPortfolio(context.Background(), ownerDA, []string{mintA})
	require.NoError(t, err)
	assert.Zero(t, summary.TotalValueUSD)
	assert.Empty(t, summary.Items)
	assert.NotNil(t, summary.Items)
}

func TestGetPortfolio_IndexerFailureIsAnError(t *testing.T) {
	idx := &fakeIndexer{balErr: errors.New("dial tcp: i/o timeout")}
	svc := newPortfolioService(t, idx, &fakePrices{})

	summary, err := svc.GetPortfolio(context.Background(), ownerDA, nil)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, entity.ErrIndexerFetch)
}

func TestGetPortfolio_InvalidOwner(t *testing.T) {
	svc := newPortfolioService(t, &fakeIndexer{}, &fakePrices{})
	_, err := svc.GetPortfolio(context.Background(), "", nil)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestGetPortfolio_MalformedTrackedMint(t *testing.T) {
	idx := &fakeIndexer{}
	svc := newPortfolioService(t, idx, &fakePrices{})

	summary, err := svc.GetPortfolio(context.Background(), ownerDA, []string{mintA, "not-a-mint"})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Contains(t, err.Error(), "not-a-mint")
	assert.Nil(t, summary)
	assert.Zero(t, idx.balCalls)
}
