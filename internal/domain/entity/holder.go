package entity

// HolderRecord is a token account that passed the minimum-balance filter.
type HolderRecord struct {
	Owner     string  `json:"owner"`
	RawAmount uint64  `json:"rawAmount,string"`
	Decimals  uint8   `json:"decimals"`
	UIAmount  float64 `json:"uiAmount"`
}

// HolderSummary is the reduction of a holder list at a single token price.
type HolderSummary struct {
	Count         int     `json:"count"`
	TotalUIAmount float64 `json:"totalUiAmount"`
	TotalValueUSD float64 `json:"totalValueUsd"`
}

// LeaderboardEntry is a ranked holder with its value at the current price.
// PercentOfSupply is only set when the registry carries the token's total supply.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	HolderRecord
	ValueUSD        float64  `json:"valueUsd"`
	PercentOfSupply *float64 `json:"percentOfSupply,omitempty"`
}

// Leaderboard is the partners view of a token: its qualifying holders, largest first.
type Leaderboard struct {
	Mint          string             `json:"mint"`
	Symbol        string             `json:"symbol"`
	MinUIAmount   float64            `json:"minUiAmount"`
	PriceUSD      float64            `json:"priceUsd"`
	HolderCount   int                `json:"holderCount"`
	TotalUIAmount float64            `json:"totalUiAmount"`
	TotalWorthUSD float64            `json:"totalWorthUsd"`
	Holders       []LeaderboardEntry `json:"holders"`
}
