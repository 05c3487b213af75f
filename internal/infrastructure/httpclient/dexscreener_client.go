package httpclient

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
)

const dexScreenerProvider = "dexscreener"

// Quote symbols treated as USD.
var stablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
}

// DEXScreenerClient prices tokens by mint from DEX Screener pairs. It also satisfies port.PriceSource.
type DEXScreenerClient struct {
	client              *fasthttp.Client
	baseURL             string
	chainID             string
	timeout             time.Duration
	maxTokensPerRequest int
	logger              *zap.Logger
	metrics             *metrics.Metrics
}

// NewDEXScreenerClient creates a new DEXScreenerClient for one chain (e.g. "solana").
func NewDEXScreenerClient(baseURL, chainID string, timeout time.Duration, maxTokensPerRequest int, logger *zap.Logger, m *metrics.Metrics) *DEXScreenerClient {
	if maxTokensPerRequest <= 0 {
		maxTokensPerRequest = 30
	}
	return &DEXScreenerClient{
		client:              &fasthttp.Client{},
		baseURL:             strings.TrimRight(baseURL, "/"),
		chainID:             chainID,
		timeout:             timeout,
		maxTokensPerRequest: maxTokensPerRequest,
		logger:              logger.Named("DEXScreenerClient"),
		metrics:             m,
	}
}

func (c *DEXScreenerClient) Name() string { return dexScreenerProvider }

// PriceID is the mint itself; DEX Screener is keyed by token address.
func (c *DEXScreenerClient) PriceID(token entity.TokenInfo) string { return token.Mint }

// FetchPriceUSD returns the price of the best pair for mint: the deepest stablecoin-quoted pair,
// otherwise the deepest pair overall.
func (c *DEXScreenerClient) FetchPriceUSD(ctx context.Context, mint string) (float64, error) {
	pairs, err := c.GetTokenPairsByAddresses(ctx, []string{mint})
	if err != nil {
		return 0, err
	}
	best := c.selectBestPair(pairs, mint)
	if best == nil {
		return 0, fmt.Errorf("%w: no priced DEX Screener pair for %s", entity.ErrPriceUnavailable, mint)
	}
	price, err := strconv.ParseFloat(best.PriceUsd, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse DEX Screener price %q for %s: %w", best.PriceUsd, mint, err)
	}
	return price, nil
}

// GetTokenPairsByAddresses returns all pairs DEX Screener knows for the given token addresses.
func (c *DEXScreenerClient) GetTokenPairsByAddresses(ctx context.Context, tokenAddresses []string) ([]PairData, error) {
	if len(tokenAddresses) == 0 {
		return nil, fmt.Errorf("tokenAddresses cannot be empty")
	}
	if len(tokenAddresses) > c.maxTokensPerRequest {
		return nil, fmt.Errorf("number of token addresses (%d) exceeds max tokens per request (%d)", len(tokenAddresses), c.maxTokensPerRequest)
	}

	requestURL := fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, c.chainID, strings.Join(tokenAddresses, ","))
	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	err := do(ctx, c.client, req, resp, c.timeout, dexScreenerProvider)
	status := 0
	if err == nil {
		status = resp.StatusCode()
	}
	c.metrics.ObserveExternalCall(dexScreenerProvider, "token_pairs", outcomeOf(status, err), time.Since(start))
	if err != nil {
		return nil, err
	}

	rawBody := resp.Body()
	switch {
	case status == fasthttp.StatusTooManyRequests:
		return nil, &entity.TransientProviderError{
			Provider:   dexScreenerProvider,
			StatusCode: status,
			Cause:      fmt.Errorf("rate limited on %s", requestURL),
		}
	case status != fasthttp.StatusOK:
		return nil, fmt.Errorf("DEX Screener API request to %s failed with status %d: %s", requestURL, status, truncate(rawBody, 256))
	}

	var directPairs []PairData
	if err := json.Unmarshal(rawBody, &directPairs); err == nil {
		return directPairs, nil
	}

	var wrapped dexTokenPairs
	if err := json.Unmarshal(rawBody, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DEX Screener response from %s: %w", requestURL, err)
	}
	return wrapped.Pairs, nil
}

func (c *DEXScreenerClient) selectBestPair(pairs []PairData, baseTokenAddress string) *PairData {
	var bestOverall, bestStable *PairData

	for i := range pairs {
		pair := &pairs[i]
		// Solana mints are case-sensitive.
		if pair.BaseToken.Address != baseTokenAddress {
			continue
		}
		if pair.PriceUsd == "" || pair.PriceUsd == "0" {
			continue
		}

		if _, ok := stablecoinSymbols[strings.ToUpper(pair.QuoteToken.Symbol)]; ok {
			if bestStable == nil || pair.liquidityUsd() > bestStable.liquidityUsd() {
				bestStable = pair
			}
		}
		if bestOverall == nil || pair.liquidityUsd() > bestOverall.liquidityUsd() {
			bestOverall = pair
		}
	}

	best := bestStable
	if best == nil {
		best = bestOverall
	}
	if best != nil {
		c.logger.Debug("Selected DEX Screener pair",
			zap.String("baseTokenAddress", baseTokenAddress),
			zap.String("pairAddress", best.PairAddress),
			zap.String("priceUsd", best.PriceUsd),
			zap.Float64("liquidityUsd", best.liquidityUsd()),
			zap.String("quoteToken", best.QuoteToken.Symbol))
	}
	return best
}
