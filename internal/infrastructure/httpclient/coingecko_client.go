package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const coinGeckoProvider = "coingecko"

// coinGeckoSimplePrice is the /simple/price body: {"<id>": {"usd": 1.23}}.
type coinGeckoSimplePrice map[string]map[string]float64

type coinGeckoClientImpl struct {
	client       *fasthttp.Client
	baseURL      string
	apiKey       string
	apiKeyHeader string
	timeout      time.Duration
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewCoinGeckoClient creates a price source backed by the CoinGecko simple price endpoint.
// timeout applies only when the caller's context carries no deadline.
func NewCoinGeckoClient(baseURL, apiKey, apiKeyHeader string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) port.PriceSource {
	return &coinGeckoClientImpl{
		client:       &fasthttp.Client{},
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		apiKeyHeader: apiKeyHeader,
		timeout:      timeout,
		logger:       logger.Named("CoinGeckoClient"),
		metrics:      m,
	}
}

func (c *coinGeckoClientImpl) Name() string { return coinGeckoProvider }

func (c *coinGeckoClientImpl) PriceID(token entity.TokenInfo) string { return token.PriceID }

// FetchPriceUSD performs one spot price query. 429s and transport failures are returned as
// *entity.TransientProviderError; a response without the id yields entity.ErrPriceUnavailable.
func (c *coinGeckoClientImpl) FetchPriceUSD(ctx context.Context, priceID string) (float64, error) {
	requestURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(priceID))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" && c.apiKeyHeader != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	err := do(ctx, c.client, req, resp, c.timeout, coinGeckoProvider)
	status := 0
	if err == nil {
		status = resp.StatusCode()
	}
	c.metrics.ObserveExternalCall(coinGeckoProvider, "simple_price", outcomeOf(status, err), time.Since(start))

	if err != nil {
		c.logger.Debug("CoinGecko request failed", zap.String("priceId", priceID), zap.Error(err))
		return 0, err
	}

	body := resp.Body()
	switch {
	case status == fasthttp.StatusTooManyRequests:
		return 0, &entity.TransientProviderError{
			Provider:   coinGeckoProvider,
			StatusCode: status,
			Cause:      fmt.Errorf("rate limited for %s", priceID),
		}
	case status != fasthttp.StatusOK:
		return 0, fmt.Errorf("CoinGecko request for %s failed with status %d: %s", priceID, status, truncate(body, 256))
	}

	var prices coinGeckoSimplePrice
	if err := json.Unmarshal(body, &prices); err != nil {
		return 0, fmt.Errorf("failed to unmarshal CoinGecko response for %s: %w", priceID, err)
	}
	quote, ok := prices[priceID]
	if !ok {
		return 0, fmt.Errorf("%w: CoinGecko has no entry for %s", entity.ErrPriceUnavailable, priceID)
	}
	usd, ok := quote["usd"]
	if !ok {
		return 0, fmt.Errorf("%w: CoinGecko has no usd quote for %s", entity.ErrPriceUnavailable, priceID)
	}
	return usd, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
