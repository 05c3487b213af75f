package entity

// ValuedHolding is a wallet balance joined with its spot price.
type ValuedHolding struct {
	Mint              string  `json:"mint"`
	Symbol            string  `json:"symbol"`
	RawAmount         uint64  `json:"rawAmount,string"`
	Decimals          uint8   `json:"decimals"`
	UIAmount          float64 `json:"uiAmount"`
	PriceUSD          float64 `json:"priceUsd"`
	ValueUSD          float64 `json:"valueUsd"`
	AllocationPercent float64 `json:"allocationPercent"`
}

// PortfolioSummary is the valued, ranked set of tracked holdings of one wallet.
// TotalValueUSD is the sum of Items[*].ValueUSD.
type PortfolioSummary struct {
	Owner         string          `json:"owner"`
	TotalValueUSD float64         `json:"totalValueUsd"`
	ItemCount     int             `json:"itemCount"`
	Items         []ValuedHolding `json:"items"`
}
