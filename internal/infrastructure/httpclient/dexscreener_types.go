package httpclient

// dexTokenPairs is the wrapped form of a DEX Screener pairs response.
// The tokens/v1 endpoint returns a bare array instead.
type dexTokenPairs struct {
	SchemaVersion string     `json:"schemaVersion"`
	Pairs         []PairData `json:"pairs"`
}

// PairData is the subset of a DEX Screener pair used for pricing.
type PairData struct {
	ChainID     string        `json:"chainId"`
	DexID       string        `json:"dexId"`
	PairAddress string        `json:"pairAddress"`
	BaseToken   DEXToken      `json:"baseToken"`
	QuoteToken  DEXToken      `json:"quoteToken"`
	PriceUsd    string        `json:"priceUsd"`
	Liquidity   *DEXLiquidity `json:"liquidity"`
	MarketCap   float64       `json:"marketCap"`
}

type DEXToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type DEXLiquidity struct {
	Usd   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

func (p *PairData) liquidityUsd() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.Usd
}
