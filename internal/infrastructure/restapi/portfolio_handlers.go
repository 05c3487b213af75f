package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partners_lounge/internal/app/port"
)

// PortfolioHandler serves wallet and DAO treasury valuations.
type PortfolioHandler struct {
	portfolioService port.PortfolioService
	daoAddress       string
}

// NewPortfolioHandler creates a new PortfolioHandler. daoAddress may be empty, which disables
// the DAO holdings route.
func NewPortfolioHandler(ps port.PortfolioService, daoAddress string) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: ps,
		daoAddress:       daoAddress,
	}
}

// GetPortfolio handles GET /api/v1/portfolios/:address?token=a&token=b.
// Without token parameters every registry token is valued.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	summary, err := h.portfolioService.GetPortfolio(c.Request.Context(), c.Param("address"), listParam(c, "token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetDAOHoldings handles GET /api/v1/dao/holdings.
func (h *PortfolioHandler) GetDAOHoldings(c *gin.Context) {
	if h.daoAddress == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
			Error:     "not configured",
			Details:   "no DAO address is configured",
			RequestID: c.GetString(requestIDKey),
		})
		return
	}
	summary, err := h.portfolioService.GetPortfolio(c.Request.Context(), h.daoAddress, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
