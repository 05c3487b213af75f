package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
	"partners_lounge/internal/pkg/utils"
)

const opGetTokenAccounts = "getTokenAccounts"

// HolderOptions tunes the token-account walk.
type HolderOptions struct {
	PageSize  int
	PageDelay time.Duration
	MaxPages  int
}

type holderServiceImpl struct {
	indexer  port.IndexerClient
	registry port.TokenRegistry
	prices   port.TokenPriceService
	opts     HolderOptions
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewHolderService creates a new HolderService.
func NewHolderService(
	indexer port.IndexerClient,
	registry port.TokenRegistry,
	prices port.TokenPriceService,
	opts HolderOptions,
	logger *zap.Logger,
	m *metrics.Metrics,
) port.HolderService {
	if opts.PageSize <= 0 {
		opts.PageSize = 1000
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 10000
	}
	return &holderServiceImpl{
		indexer:  indexer,
		registry: registry,
		prices:   prices,
		opts:     opts,
		logger:   logger.Named("HolderService"),
		metrics:  m,
	}
}

// ListHolders returns every token account of mint holding at least minUIAmount, largest first.
func (s *holderServiceImpl) ListHolders(ctx context.Context, mint string, minUIAmount float64) ([]entity.HolderRecord, error) {
	info, err := s.resolveToken(mint, minUIAmount)
	if err != nil {
		return nil, err
	}

	records, err := s.fetchHolders(ctx, info, minUIAmount)
	if err != nil {
		return nil, err
	}
	return RankHolders(records), nil
}

// GetLeaderboard ranks the holders of mint and values them at the current spot price.
func (s *holderServiceImpl) GetLeaderboard(ctx context.Context, mint string, minUIAmount float64) (*entity.Leaderboard, error) {
	info, err := s.resolveToken(mint, minUIAmount)
	if err != nil {
		return nil, err
	}

	records, err := s.fetchHolders(ctx, info, minUIAmount)
	if err != nil {
		return nil, err
	}
	ranked := RankHolders(records)
	price := s.prices.GetTokenPrice(ctx, mint)
	summary := SummarizeHolders(ranked, price)

	entries := make([]entity.LeaderboardEntry, len(ranked))
	for i, r := range ranked {
		entries[i] = entity.LeaderboardEntry{
			Rank:         i + 1,
			HolderRecord: r,
			ValueUSD:     r.UIAmount * price,
		}
		if info.TotalSupply > 0 {
			pct := r.UIAmount / info.TotalSupply * 100
			entries[i].PercentOfSupply = &pct
		}
	}

	s.logger.Info("Built leaderboard",
		zap.String("mint", mint),
		zap.Int("holders", summary.Count),
		zap.Float64("priceUsd", price))

	return &entity.Leaderboard{
		Mint:          mint,
		Symbol:        info.Symbol,
		MinUIAmount:   minUIAmount,
		PriceUSD:      price,
		HolderCount:   summary.Count,
		TotalUIAmount: summary.TotalUIAmount,
		TotalWorthUSD: summary.TotalValueUSD,
		Holders:       entries,
	}, nil
}

func (s *holderServiceImpl) resolveToken(mint string, minUIAmount float64) (entity.TokenInfo, error) {
	if err := utils.ValidateAddress(mint); err != nil {
		return entity.TokenInfo{}, fmt.Errorf("%w: mint: %v", entity.ErrInvalidInput, err)
	}
	if math.IsNaN(minUIAmount) || math.IsInf(minUIAmount, 0) || minUIAmount < 0 {
		return entity.TokenInfo{}, fmt.Errorf("%w: minimum amount must be a non-negative number", entity.ErrInvalidInput)
	}
	info, ok := s.registry.Lookup(mint)
	if !ok {
		return entity.TokenInfo{}, fmt.Errorf("%w: token %s is not tracked", entity.ErrInvalidInput, mint)
	}
	return info, nil
}

// fetchHolders walks every token-account page of info.Mint in indexer order. Pages are
// requested one after another, paced by the configured delay. Any failure discards
// everything collected so far.
func (s *holderServiceImpl) fetchHolders(ctx context.Context, info entity.TokenInfo, minUIAmount float64) ([]entity.HolderRecord, error) {
	var limiter *rate.Limiter
	if s.opts.PageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(s.opts.PageDelay), 1)
	}

	var (
		records []entity.HolderRecord
		cursor  string
		scanned int
	)
	for page := 1; ; page++ {
		if page > s.opts.MaxPages {
			return nil, &entity.IndexerFetchError{
				Op:    opGetTokenAccounts,
				Cause: fmt.Errorf("gave up after %d pages for %s", s.opts.MaxPages, info.Mint),
			}
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, &entity.IndexerFetchError{Op: opGetTokenAccounts, Cause: err}
			}
		}

		result, err := s.indexer.GetTokenAccounts(ctx, info.Mint, s.opts.PageSize, cursor)
		if err != nil {
			s.logger.Error("Token account page failed, discarding partial results",
				zap.String("mint", info.Mint),
				zap.Int("page", page),
				zap.Int("scanned", scanned),
				zap.Error(err))
			return nil, &entity.IndexerFetchError{Op: opGetTokenAccounts, Cause: err}
		}
		s.metrics.ObserveHolderPage(len(result.Accounts))
		scanned += len(result.Accounts)

		for _, acc := range result.Accounts {
			ui := utils.UIAmount(acc.RawAmount, info.Decimals)
			if ui < minUIAmount {
				continue
			}
			records = append(records, entity.HolderRecord{
				Owner:     acc.Owner,
				RawAmount: acc.RawAmount,
				Decimals:  info.Decimals,
				UIAmount:  ui,
			})
		}

		s.logger.Debug("Fetched holder page",
			zap.String("mint", info.Mint),
			zap.Int("page", page),
			zap.Int("accounts", len(result.Accounts)),
			zap.Int("kept", len(records)))

		if result.Cursor == "" || len(result.Accounts) == 0 {
			break
		}
		cursor = result.Cursor
	}

	s.logger.Info("Listed holders",
		zap.String("mint", info.Mint),
		zap.Int("scanned", scanned),
		zap.Int("kept", len(records)),
		zap.Float64("minUiAmount", minUIAmount))
	if records == nil {
		records = []entity.HolderRecord{}
	}
	return records, nil
}
