package entity

// WrappedSOLMint is the mint under which native SOL balances are reported.
const WrappedSOLMint = "So11111111111111111111111111111111111111112"

// NativeSOLDecimals is the number of decimals of a lamport amount.
const NativeSOLDecimals uint8 = 9

// TokenInfo holds the registry details of a tracked token.
// PriceID is the price provider's identifier (a CoinGecko coin id), not the mint.
type TokenInfo struct {
	Mint        string  `json:"mint" yaml:"mint"`
	PriceID     string  `json:"priceId" yaml:"priceId"`
	Decimals    uint8   `json:"decimals" yaml:"decimals"`
	Symbol      string  `json:"symbol" yaml:"symbol"`
	Program     string  `json:"program,omitempty" yaml:"program,omitempty"`
	TotalSupply float64 `json:"totalSupply,omitempty" yaml:"totalSupply,omitempty"` // optional, in UI units
}
