package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/utils"
)

const opGetTokenBalances = "getTokenBalances"

type portfolioServiceImpl struct {
	indexer               port.IndexerClient
	registry              port.TokenRegistry
	prices                port.TokenPriceService
	maxConcurrentRoutines int
	logger                *zap.Logger
}

// NewPortfolioService creates a new PortfolioService. maxRoutines bounds concurrent price lookups.
func NewPortfolioService(
	indexer port.IndexerClient,
	registry port.TokenRegistry,
	prices port.TokenPriceService,
	maxRoutines int,
	logger *zap.Logger,
) port.PortfolioService {
	if maxRoutines <= 0 {
		maxRoutines = 1
	}
	return &portfolioServiceImpl{
		indexer:               indexer,
		registry:              registry,
		prices:                prices,
		maxConcurrentRoutines: maxRoutines,
		logger:                logger.Named("PortfolioService"),
	}
}

// GetPortfolio values the tracked balances of owner. Balances outside tracked, or outside the
// registry, are ignored. An indexer failure is returned as *entity.IndexerFetchError.
func (s *portfolioServiceImpl) GetPortfolio(ctx context.Context, owner string, tracked []string) (*entity.PortfolioSummary, error) {
	if err := utils.ValidateAddress(owner); err != nil {
		return nil, fmt.Errorf("%w: owner: %v", entity.ErrInvalidInput, err)
	}

	trackedSet, err := s.trackedSet(tracked)
	if err != nil {
		return nil, err
	}

	balances, err := s.indexer.GetTokenBalances(ctx, owner)
	if err != nil {
		s.logger.Error("Balance query failed", zap.String("owner", owner), zap.Error(err))
		return nil, &entity.IndexerFetchError{Op: opGetTokenBalances, Cause: err}
	}

	items := make([]entity.ValuedHolding, 0, len(trackedSet))
	for _, b := range balances {
		info, ok := trackedSet[b.Mint]
		if !ok || b.RawAmount == 0 {
			continue
		}
		symbol := info.Symbol
		if symbol == "" {
			symbol = b.Symbol
		}
		items = append(items, entity.ValuedHolding{
			Mint:      b.Mint,
			Symbol:    symbol,
			RawAmount: b.RawAmount,
			Decimals:  b.Decimals,
			UIAmount:  utils.UIAmount(b.RawAmount, b.Decimals),
		})
	}

	if err := s.priceItems(ctx, items); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].ValueUSD = items[i].UIAmount * items[i].PriceUSD
	}
	ranked := RankHoldings(items)
	ApplyAllocation(ranked)
	summary := Summarize(ranked)

	s.logger.Info("Built portfolio",
		zap.String("owner", owner),
		zap.Int("balances", len(balances)),
		zap.Int("items", summary.Count),
		zap.Float64("totalValueUsd", summary.TotalValueUSD))

	return &entity.PortfolioSummary{
		Owner:         owner,
		TotalValueUSD: summary.TotalValueUSD,
		ItemCount:     summary.Count,
		Items:         ranked,
	}, nil
}

// trackedSet resolves tracked mints against the registry. An empty list means every registry token.
// A malformed mint is invalid input; a well-formed one missing from the registry is skipped.
func (s *portfolioServiceImpl) trackedSet(tracked []string) (map[string]entity.TokenInfo, error) {
	if len(tracked) == 0 {
		tracked = s.registry.Mints()
	}
	set := make(map[string]entity.TokenInfo, len(tracked))
	for _, mint := range tracked {
		if err := utils.ValidateAddress(mint); err != nil {
			return nil, fmt.Errorf("%w: token %q: %v", entity.ErrInvalidInput, mint, err)
		}
		info, ok := s.registry.Lookup(mint)
		if !ok {
			s.logger.Debug("Ignoring tracked mint missing from registry", zap.String("mint", mint))
			continue
		}
		set[mint] = info
	}
	return set, nil
}

// priceItems fills PriceUSD of every item. Lookups run concurrently and are all joined before returning.
func (s *portfolioServiceImpl) priceItems(ctx context.Context, items []entity.ValuedHolding) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentRoutines)

	var mu sync.Mutex
	for i := range items {
		i := i
		g.Go(func() error {
			price := s.prices.GetTokenPrice(gctx, items[i].Mint)
			mu.Lock()
			items[i].PriceUSD = price
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
