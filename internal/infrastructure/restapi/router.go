package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"partners_lounge/internal/pkg/metrics"
)

// Handlers groups the route handlers mounted by SetupRouter.
type Handlers struct {
	Portfolio *PortfolioHandler
	Holder    *HolderHandler
	Token     *TokenHandler
}

// RouterOptions carries the cross-cutting pieces of the router.
type RouterOptions struct {
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer // serves /metrics when set
	AllowOrigins []string            // empty allows any origin
}

// SetupRouter builds the gin engine with middleware and all API routes.
func SetupRouter(h Handlers, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestID(),
		RequestLogger(logger),
		RequestMetrics(opts.Metrics),
		cors.New(corsConfig(opts.AllowOrigins)),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/tokens", h.Token.ListTokens)
		v1.GET("/prices", h.Token.GetPrices)
		v1.GET("/holders/:mint", h.Holder.ListHolders)
		v1.GET("/leaderboard", h.Holder.GetLeaderboard)
		v1.GET("/portfolios/:address", h.Portfolio.GetPortfolio)
		v1.GET("/dao/holdings", h.Portfolio.GetDAOHoldings)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:     "not found",
			Details:   c.Request.URL.Path,
			RequestID: c.GetString(requestIDKey),
		})
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
