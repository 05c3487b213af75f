package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// RawToDecimal converts a raw integer token amount to its display amount, exactly.
// Example: raw=12345, decimals=2 => 123.45
func RawToDecimal(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals))
}

// UIAmount converts a raw integer token amount to a float display amount (raw / 10^decimals).
func UIAmount(raw uint64, decimals uint8) float64 {
	f, _ := RawToDecimal(raw, decimals).Float64()
	return f
}

// FormatUIAmount renders the display amount without trailing zeros.
func FormatUIAmount(raw uint64, decimals uint8) string {
	return RawToDecimal(raw, decimals).String()
}
