package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partners_lounge/internal/domain/entity"
)

const (
	mintAI16Z = "HeLp6NuQkmYB4pYWo2zYs22mESHXPQYzXbB8n4V98jwC"
	mintUSDC  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func TestNewTokenRegistry_PreservesOrder(t *testing.T) {
	reg, err := NewTokenRegistry([]entity.TokenInfo{
		{Mint: mintAI16Z, Symbol: "AI16Z", Decimals: 9, PriceID: "ai16z"},
		{Mint: entity.WrappedSOLMint, Symbol: "SOL", Decimals: 9, PriceID: "solana"},
		{Mint: mintUSDC, Symbol: "USDC", Decimals: 6, PriceID: "usd-coin"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{mintAI16Z, entity.WrappedSOLMint, mintUSDC}, reg.Mints())

	info, ok := reg.Lookup(mintUSDC)
	require.True(t, ok)
	assert.Equal(t, uint8(6), info.Decimals)

	_, ok = reg.Lookup("unknown")
	assert.False(t, ok)

	tokens := reg.Tokens()
	tokens[0].Symbol = "mutated"
	again, _ := reg.Lookup(mintAI16Z)
	assert.Equal(t, "AI16Z", again.Symbol)
}

func TestNewTokenRegistry_RejectsBadEntries(t *testing.T) {
	cases := map[string][]entity.TokenInfo{
		"empty":     nil,
		"bad mint":  {{Mint: "0OIl", Symbol: "X"}},
		"duplicate": {{Mint: mintUSDC}, {Mint: mintUSDC}},
		"supply":    {{Mint: mintUSDC, TotalSupply: -1}},
	}
	for name, tokens := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTokenRegistry(tokens)
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrConfiguration)
		})
	}
}
