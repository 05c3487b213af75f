package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	heliusProvider = "helius"

	methodGetTokenAccounts = "getTokenAccounts"
	methodGetAssetsByOwner = "getAssetsByOwner"
	defaultAssetsPageLimit = 1000
	maxAssetPages          = 100
	fungibleTokenInterface = "FungibleToken"
	fungibleAssetInterface = "FungibleAsset"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      string              `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *rpcError           `json:"error"`
}

type tokenAccountsParams struct {
	Mint    string               `json:"mint"`
	Limit   int                  `json:"limit"`
	Cursor  string               `json:"cursor,omitempty"`
	Options tokenAccountsOptions `json:"options"`
}

type tokenAccountsOptions struct {
	ShowZeroBalance bool `json:"showZeroBalance"`
}

type tokenAccountsResult struct {
	Total         int            `json:"total"`
	Limit         int            `json:"limit"`
	Cursor        string         `json:"cursor"`
	TokenAccounts []tokenAccount `json:"token_accounts"`
}

type tokenAccount struct {
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
}

type assetsByOwnerParams struct {
	OwnerAddress   string              `json:"ownerAddress"`
	Page           int                 `json:"page"`
	Limit          int                 `json:"limit"`
	DisplayOptions assetDisplayOptions `json:"displayOptions"`
}

type assetDisplayOptions struct {
	ShowFungible      bool `json:"showFungible"`
	ShowNativeBalance bool `json:"showNativeBalance"`
}

type assetsByOwnerResult struct {
	Total         int            `json:"total"`
	Limit         int            `json:"limit"`
	Page          int            `json:"page"`
	Items         []asset        `json:"items"`
	NativeBalance *nativeBalance `json:"nativeBalance"`
}

type asset struct {
	Interface string     `json:"interface"`
	ID        string     `json:"id"`
	TokenInfo *tokenInfo `json:"token_info"`
}

type tokenInfo struct {
	Symbol   string `json:"symbol"`
	Balance  uint64 `json:"balance"`
	Decimals uint8  `json:"decimals"`
}

type nativeBalance struct {
	Lamports uint64 `json:"lamports"`
}

// HeliusClient talks to the Helius DAS JSON-RPC API.
type HeliusClient struct {
	client          *fasthttp.Client
	endpoint        string
	timeout         time.Duration
	assetsPageLimit int
	maxAssetPages   int
	logger          *zap.Logger
	metrics         *metrics.Metrics
}

// NewHeliusClient creates an indexer client. The API key is passed as the api-key query parameter.
func NewHeliusClient(baseURL, apiKey string, timeout time.Duration, assetsPageLimit int, logger *zap.Logger, m *metrics.Metrics) port.IndexerClient {
	endpoint := strings.TrimRight(baseURL, "/") + "/"
	if apiKey != "" {
		endpoint += "?api-key=" + url.QueryEscape(apiKey)
	}
	if assetsPageLimit <= 0 {
		assetsPageLimit = defaultAssetsPageLimit
	}
	return &HeliusClient{
		client:          &fasthttp.Client{},
		endpoint:        endpoint,
		timeout:         timeout,
		assetsPageLimit: assetsPageLimit,
		maxAssetPages:   maxAssetPages,
		logger:          logger.Named("HeliusClient"),
		metrics:         m,
	}
}

// GetTokenAccounts returns one page of token accounts for mint. An empty cursor requests the first page.
func (c *HeliusClient) GetTokenAccounts(ctx context.Context, mint string, limit int, cursor string) (*entity.TokenAccountPage, error) {
	params := tokenAccountsParams{
		Mint:    mint,
		Limit:   limit,
		Cursor:  cursor,
		Options: tokenAccountsOptions{ShowZeroBalance: false},
	}

	var result tokenAccountsResult
	if err := c.call(ctx, methodGetTokenAccounts, params, &result); err != nil {
		return nil, err
	}

	page := &entity.TokenAccountPage{
		Accounts: make([]entity.TokenAccount, 0, len(result.TokenAccounts)),
		Cursor:   result.Cursor,
	}
	for _, ta := range result.TokenAccounts {
		page.Accounts = append(page.Accounts, entity.TokenAccount{
			Address:   ta.Address,
			Owner:     ta.Owner,
			RawAmount: ta.Amount,
		})
	}
	c.logger.Debug("Fetched token account page",
		zap.String("mint", mint),
		zap.Int("accounts", len(page.Accounts)),
		zap.Bool("hasCursor", page.Cursor != ""))
	return page, nil
}

// GetTokenBalances returns every fungible balance of owner, one entry per mint, plus native
// SOL added to the entity.WrappedSOLMint balance when non-zero. An owner whose assets do not
// end within the page cap is an error rather than a truncated list.
func (c *HeliusClient) GetTokenBalances(ctx context.Context, owner string) ([]entity.TokenBalance, error) {
	var balances []entity.TokenBalance
	byMint := make(map[string]int)
	var native uint64
	complete := false

	for page := 1; page <= c.maxAssetPages; page++ {
		params := assetsByOwnerParams{
			OwnerAddress: owner,
			Page:         page,
			Limit:        c.assetsPageLimit,
			DisplayOptions: assetDisplayOptions{
				ShowFungible:      true,
				ShowNativeBalance: true,
			},
		}

		var result assetsByOwnerResult
		if err := c.call(ctx, methodGetAssetsByOwner, params, &result); err != nil {
			return nil, err
		}
		if page == 1 && result.NativeBalance != nil {
			native = result.NativeBalance.Lamports
		}

		for _, a := range result.Items {
			if a.TokenInfo == nil {
				continue
			}
			if a.Interface != "" && a.Interface != fungibleTokenInterface && a.Interface != fungibleAssetInterface {
				continue
			}
			if i, ok := byMint[a.ID]; ok {
				balances[i].RawAmount += a.TokenInfo.Balance
				continue
			}
			byMint[a.ID] = len(balances)
			balances = append(balances, entity.TokenBalance{
				Mint:      a.ID,
				Symbol:    a.TokenInfo.Symbol,
				Decimals:  a.TokenInfo.Decimals,
				RawAmount: a.TokenInfo.Balance,
			})
		}

		if len(result.Items) < c.assetsPageLimit {
			complete = true
			break
		}
	}
	if !complete {
		return nil, fmt.Errorf("%s: owner %s still has assets after %d pages", methodGetAssetsByOwner, owner, c.maxAssetPages)
	}

	if native > 0 {
		// wSOL shares the native 9 decimals, so lamports add straight onto it.
		if i, ok := byMint[entity.WrappedSOLMint]; ok {
			balances[i].RawAmount += native
		} else {
			balances = append(balances, entity.TokenBalance{
				Mint:      entity.WrappedSOLMint,
				Symbol:    "SOL",
				Decimals:  entity.NativeSOLDecimals,
				RawAmount: native,
			})
		}
	}
	c.logger.Debug("Fetched owner balances", zap.String("owner", owner), zap.Int("count", len(balances)))
	return balances, nil
}

// call performs one JSON-RPC request and decodes result into out.
func (c *HeliusClient) call(ctx context.Context, method string, params any, out any) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		c.metrics.ObserveExternalCall(heliusProvider, method, callOutcome(status, err), time.Since(start))
	}()

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err = ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Indexer request failed", zap.String("method", method), zap.Error(err))
		return fmt.Errorf("%s request failed: %w", method, err)
	}

	status = resp.StatusCode()
	if status != fasthttp.StatusOK {
		err = fmt.Errorf("%s returned status %d: %s", method, status, string(resp.Body()))
		c.logger.Error("Indexer returned non-OK status", zap.String("method", method), zap.Int("statusCode", status))
		return err
	}

	var rpcResp rpcResponse
	if err = json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		err = fmt.Errorf("%s: %w", method, rpcResp.Error)
		c.logger.Error("Indexer returned RPC error", zap.String("method", method), zap.Error(rpcResp.Error))
		return err
	}
	if len(rpcResp.Result) == 0 {
		err = fmt.Errorf("%s: empty result", method)
		return err
	}
	if err = json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

func callOutcome(status int, err error) string {
	switch {
	case status == fasthttp.StatusTooManyRequests:
		return metrics.OutcomeRateLimited
	case err != nil && (errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)):
		return metrics.OutcomeTimeout
	case err != nil:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeSuccess
	}
}
