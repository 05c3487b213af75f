package restapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/utils"
)

// TokensResponse is the body of GET /api/v1/tokens.
type TokensResponse struct {
	Tokens []entity.TokenInfo `json:"tokens"`
}

// PricesResponse is the body of GET /api/v1/prices.
type PricesResponse struct {
	Prices map[string]float64 `json:"prices"`
}

// TokenHandler serves the tracked token list and their spot prices.
type TokenHandler struct {
	registry    port.TokenRegistry
	prices      port.TokenPriceService
	lookupLimit int
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(registry port.TokenRegistry, prices port.TokenPriceService, lookupLimit int) *TokenHandler {
	return &TokenHandler{
		registry:    registry,
		prices:      prices,
		lookupLimit: lookupLimit,
	}
}

// ListTokens handles GET /api/v1/tokens.
func (h *TokenHandler) ListTokens(c *gin.Context) {
	c.JSON(http.StatusOK, TokensResponse{Tokens: h.registry.Tokens()})
}

// GetPrices handles GET /api/v1/prices?mint=a&mint=b. Without mints every registry token is priced.
// Untracked or unpriceable mints report 0; a malformed mint is a 400.
func (h *TokenHandler) GetPrices(c *gin.Context) {
	mints := listParam(c, "mint")
	for _, mint := range mints {
		if err := utils.ValidateAddress(mint); err != nil {
			respondBadRequest(c, fmt.Sprintf("mint %q: %v", mint, err))
			return
		}
	}
	if len(mints) == 0 {
		mints = h.registry.Mints()
	}
	c.JSON(http.StatusOK, PricesResponse{
		Prices: h.prices.GetTokenPrices(c.Request.Context(), mints, h.lookupLimit),
	})
}
