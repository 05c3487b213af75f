package port

import (
	"context"

	"partners_lounge/internal/domain/entity"
)

// TokenRegistry is the read-only mapping of tracked mints to their price id, decimals and symbol.
type TokenRegistry interface {
	Lookup(mint string) (entity.TokenInfo, bool)
	// Tokens returns the registry in configuration order.
	Tokens() []entity.TokenInfo
	Mints() []string
}

// PriceSource fetches a single USD spot price from one provider.
// Retryable failures are returned as *entity.TransientProviderError.
type PriceSource interface {
	Name() string
	// PriceID returns the identifier this provider prices token under.
	PriceID(token entity.TokenInfo) string
	FetchPriceUSD(ctx context.Context, priceID string) (float64, error)
}

// TokenPriceService resolves spot prices. It never fails: a missing or failed price is 0.
type TokenPriceService interface {
	GetPrice(ctx context.Context, priceID string) float64
	// GetTokenPrice translates mint through the registry before pricing it.
	GetTokenPrice(ctx context.Context, mint string) float64
	// GetTokenPrices prices mints concurrently with at most limit lookups in flight.
	GetTokenPrices(ctx context.Context, mints []string, limit int) map[string]float64
}
