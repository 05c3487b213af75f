package utils

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeyLength is the byte length of a Solana public key.
const PublicKeyLength = 32

// ValidateAddress checks that s is a base58-encoded 32-byte Solana public key.
func ValidateAddress(s string) error {
	if s == "" {
		return errors.New("address is empty")
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("address %q is not valid base58: %w", s, err)
	}
	if len(decoded) != PublicKeyLength {
		return fmt.Errorf("address %q decodes to %d bytes, want %d", s, len(decoded), PublicKeyLength)
	}
	return nil
}
