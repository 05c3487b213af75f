package tokenloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"partners_lounge/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// tokenFile is the on-disk shape. A bare list of tokens is accepted too.
type tokenFile struct {
	Tokens []entity.TokenInfo `yaml:"tokens" json:"tokens"`
}

// LoadTokens reads token definitions from a .json, .yaml or .yml file.
// An empty path yields no tokens.
func LoadTokens(path string) ([]entity.TokenInfo, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return decodeJSON(data, path)
	case ".yaml", ".yml":
		return decodeYAML(data, path)
	default:
		return nil, fmt.Errorf("unsupported token file extension %q for %s", ext, path)
	}
}

func decodeJSON(data []byte, path string) ([]entity.TokenInfo, error) {
	var list []entity.TokenInfo
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var wrapped tokenFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens from %s: %w", path, err)
	}
	return wrapped.Tokens, nil
}

func decodeYAML(data []byte, path string) ([]entity.TokenInfo, error) {
	var list []entity.TokenInfo
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var wrapped tokenFile
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens from %s: %w", path, err)
	}
	return wrapped.Tokens, nil
}
