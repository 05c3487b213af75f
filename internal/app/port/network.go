package port

import (
	"context"

	"partners_lounge/internal/domain/entity"
)

// IndexerClient is the narrow view of the on-chain indexing service.
// Both calls are fallible and rate limited; the cursor is opaque and must be echoed back verbatim.
type IndexerClient interface {
	// GetTokenAccounts returns one page of accounts holding mint. An empty cursor requests the first page.
	GetTokenAccounts(ctx context.Context, mint string, limit int, cursor string) (*entity.TokenAccountPage, error)

	// GetTokenBalances returns every fungible balance owned by owner, native SOL included.
	GetTokenBalances(ctx context.Context, owner string) ([]entity.TokenBalance, error)
}
