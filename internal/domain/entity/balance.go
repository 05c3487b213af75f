package entity

// TokenBalance is one fungible balance owned by a wallet, as reported by the indexer.
type TokenBalance struct {
	Mint      string
	Symbol    string
	Decimals  uint8
	RawAmount uint64
}

// TokenAccount is a single holder account returned by a paginated token-accounts query.
type TokenAccount struct {
	Address   string
	Owner     string
	RawAmount uint64
}

// TokenAccountPage is one page of token accounts. Cursor is opaque and empty on the last page.
type TokenAccountPage struct {
	Accounts []TokenAccount
	Cursor   string
}
