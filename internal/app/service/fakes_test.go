package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/app/provider"
	"partners_lounge/internal/domain/entity"
)

const (
	mintA   = "HeLp6NuQkmYB4pYWo2zYs22mESHXPQYzXbB8n4V98jwC"
	mintB   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	mintC   = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	ownerDA = "AM84n1iLdxgVTAyENBcLdjXoyvjentTbu5Q6EpKV1PeG"
)

func testRegistry(t *testing.T, tokens ...entity.TokenInfo) port.TokenRegistry {
	t.Helper()
	reg, err := provider.NewTokenRegistry(tokens)
	require.NoError(t, err)
	return reg
}

type fakeIndexer struct {
	mu       sync.Mutex
	pages    []*entity.TokenAccountPage
	pageErr  map[int]error
	cursors  []string
	balances []entity.TokenBalance
	balErr   error
	balCalls int
}

func (f *fakeIndexer) GetTokenAccounts(_ context.Context, _ string, _ int, cursor string) (*entity.TokenAccountPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.cursors)
	f.cursors = append(f.cursors, cursor)
	if err := f.pageErr[idx]; err != nil {
		return nil, err
	}
	if idx >= len(f.pages) {
		return &entity.TokenAccountPage{}, nil
	}
	return f.pages[idx], nil
}

func (f *fakeIndexer) GetTokenBalances(_ context.Context, _ string) ([]entity.TokenBalance, error) {
	f.mu.Lock()
	f.balCalls++
	f.mu.Unlock()
	if f.balErr != nil {
		return nil, f.balErr
	}
	return f.balances, nil
}

type fakePrices struct {
	mu      sync.Mutex
	byMint  map[string]float64
	lookups []string
}

func (f *fakePrices) GetPrice(_ context.Context, _ string) float64 { return 0 }

func (f *fakePrices) GetTokenPrice(_ context.Context, mint string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, mint)
	return f.byMint[mint]
}

func (f *fakePrices) GetTokenPrices(ctx context.Context, mints []string, _ int) map[string]float64 {
	out := make(map[string]float64, len(mints))
	for _, m := range mints {
		out[m] = f.GetTokenPrice(ctx, m)
	}
	return out
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	fetch func(ctx context.Context, call int) (float64, error)
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) PriceID(token entity.TokenInfo) string { return token.PriceID }

func (f *fakeSource) FetchPriceUSD(ctx context.Context, _ string) (float64, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.fetch(ctx, call)
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
