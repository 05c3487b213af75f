package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
)

// HoldersResponse is the body of GET /api/v1/holders/:mint.
type HoldersResponse struct {
	Mint        string                `json:"mint"`
	MinUIAmount float64               `json:"minUiAmount"`
	Count       int                   `json:"count"`
	Holders     []entity.HolderRecord `json:"holders"`
}

// HolderHandler serves holder lists and the partners leaderboard.
type HolderHandler struct {
	holderService port.HolderService
	defaultMint   string
	minUIAmount   float64
}

// NewHolderHandler creates a new HolderHandler. defaultMint and minUIAmount apply when the
// request does not name them.
func NewHolderHandler(hs port.HolderService, defaultMint string, minUIAmount float64) *HolderHandler {
	return &HolderHandler{
		holderService: hs,
		defaultMint:   defaultMint,
		minUIAmount:   minUIAmount,
	}
}

// ListHolders handles GET /api/v1/holders/:mint?minAmount=.
func (h *HolderHandler) ListHolders(c *gin.Context) {
	minAmount, err := minAmountParam(c, h.minUIAmount)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	mint := c.Param("mint")
	holders, err := h.holderService.ListHolders(c.Request.Context(), mint, minAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, HoldersResponse{
		Mint:        mint,
		MinUIAmount: minAmount,
		Count:       len(holders),
		Holders:     holders,
	})
}

// GetLeaderboard handles GET /api/v1/leaderboard?mint=&minAmount=.
func (h *HolderHandler) GetLeaderboard(c *gin.Context) {
	minAmount, err := minAmountParam(c, h.minUIAmount)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	mint := c.DefaultQuery("mint", h.defaultMint)
	if mint == "" {
		respondBadRequest(c, "mint is required")
		return
	}

	board, err := h.holderService.GetLeaderboard(c.Request.Context(), mint, minAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
