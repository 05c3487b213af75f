package restapi

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"partners_lounge/internal/pkg/utils"
)

// minAmountParam reads ?minAmount=, falling back to def when absent.
func minAmountParam(c *gin.Context, def float64) (float64, error) {
	raw, ok := c.GetQuery("minAmount")
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("minAmount must be a non-negative number, got %q", raw)
	}
	return v, nil
}

// listParam collects a repeated and/or comma separated query parameter.
func listParam(c *gin.Context, key string) []string {
	return utils.SplitList(c.QueryArray(key))
}
