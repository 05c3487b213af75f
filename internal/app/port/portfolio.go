package port

import (
	"context"

	"partners_lounge/internal/domain/entity"
)

// PortfolioService values the tracked holdings of a wallet.
type PortfolioService interface {
	// GetPortfolio returns the valued holdings of owner restricted to tracked mints.
	// An empty tracked list means every registry token.
	GetPortfolio(ctx context.Context, owner string, tracked []string) (*entity.PortfolioSummary, error)
}

// HolderService lists and ranks the holders of a tracked token.
type HolderService interface {
	// ListHolders returns every holder of mint with a UI amount of at least minUIAmount,
	// largest first; equal amounts keep indexer order.
	ListHolders(ctx context.Context, mint string, minUIAmount float64) ([]entity.HolderRecord, error)

	// GetLeaderboard ranks the holders of mint and values them at the current price.
	GetLeaderboard(ctx context.Context, mint string, minUIAmount float64) (*entity.Leaderboard, error)
}
