package provider

import (
	"fmt"

	"partners_lounge/internal/app/port"
	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/utils"
)

type tokenRegistryImpl struct {
	tokens []entity.TokenInfo
	byMint map[string]entity.TokenInfo
}

// NewTokenRegistry builds a read-only registry. Order of the input is preserved.
// Invalid mints, duplicate mints or an empty list yield entity.ErrConfiguration.
func NewTokenRegistry(tokens []entity.TokenInfo) (port.TokenRegistry, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: token registry is empty", entity.ErrConfiguration)
	}

	r := &tokenRegistryImpl{
		tokens: make([]entity.TokenInfo, 0, len(tokens)),
		byMint: make(map[string]entity.TokenInfo, len(tokens)),
	}
	for i, t := range tokens {
		if err := utils.ValidateAddress(t.Mint); err != nil {
			return nil, fmt.Errorf("%w: registry entry %d (%s): %v", entity.ErrConfiguration, i, t.Symbol, err)
		}
		if _, dup := r.byMint[t.Mint]; dup {
			return nil, fmt.Errorf("%w: duplicate registry mint %s", entity.ErrConfiguration, t.Mint)
		}
		if t.TotalSupply < 0 {
			return nil, fmt.Errorf("%w: registry entry %s has negative totalSupply", entity.ErrConfiguration, t.Mint)
		}
		r.byMint[t.Mint] = t
		r.tokens = append(r.tokens, t)
	}
	return r, nil
}

func (r *tokenRegistryImpl) Lookup(mint string) (entity.TokenInfo, bool) {
	t, ok := r.byMint[mint]
	return t, ok
}

// Tokens returns a copy so callers cannot mutate the registry.
func (r *tokenRegistryImpl) Tokens() []entity.TokenInfo {
	out := make([]entity.TokenInfo, len(r.tokens))
	copy(out, r.tokens)
	return out
}

func (r *tokenRegistryImpl) Mints() []string {
	out := make([]string, len(r.tokens))
	for i, t := range r.tokens {
		out[i] = t.Mint
	}
	return out
}
