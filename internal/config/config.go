package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"partners_lounge/internal/domain/entity"
	"partners_lounge/internal/pkg/utils"
)

// Price providers.
const (
	PriceProviderCoinGecko   = "coingecko"
	PriceProviderDEXScreener = "dexscreener"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
	Indexer      IndexerConfig      `yaml:"indexer"`
	PriceService PriceServiceConfig `yaml:"priceService"`
	DEXScreener  DEXScreenerConfig  `yaml:"dexScreener"`
	Registry     RegistryConfig     `yaml:"registry"`
	Leaderboard  LeaderboardConfig  `yaml:"leaderboard"`
}

// ServerConfig holds the server-specific configuration. Timeouts are in seconds.
type ServerConfig struct {
	Port         string   `yaml:"port"`
	ReadTimeout  int      `yaml:"readTimeout"`
	WriteTimeout int      `yaml:"writeTimeout"`
	IdleTimeout  int      `yaml:"idleTimeout"`
	AllowOrigins []string `yaml:"allowOrigins"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// IndexerConfig holds the configuration for the Helius DAS indexer client.
type IndexerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	PageSize             int    `yaml:"pageSize"`
	PageDelayMillis      *int64 `yaml:"pageDelayMillis"` // nil means the default; 0 disables pacing
	MaxPages             int    `yaml:"maxPages"`
	AssetsPageLimit      int    `yaml:"assetsPageLimit"`
}

// PriceServiceConfig holds configuration for the price oracle and its provider.
type PriceServiceConfig struct {
	Provider                  string `yaml:"provider"`
	BaseURL                   string `yaml:"baseURL"`
	APIKey                    string `yaml:"apiKey"`
	APIKeyHeader              string `yaml:"apiKeyHeader"`
	AttemptTimeoutMillis      int64  `yaml:"attemptTimeoutMillis"`
	MaxAttempts               int    `yaml:"maxAttempts"`
	BackoffStepMillis         int64  `yaml:"backoffStepMillis"`
	CacheTTLSeconds           int    `yaml:"cacheTTLSeconds"` // 0 disables the cache
	MaxConcurrentPriceLookups int    `yaml:"maxConcurrentPriceLookups"`
}

// DEXScreenerConfig holds the configuration for the DEX Screener client.
type DEXScreenerConfig struct {
	BaseURL             string `yaml:"baseURL"`
	ChainID             string `yaml:"chainID"`
	MaxTokensPerRequest int    `yaml:"maxTokensPerRequest"`
}

// RegistryConfig lists the tracked tokens inline and/or in a YAML or JSON file.
type RegistryConfig struct {
	TokensFile string             `yaml:"tokensFile"`
	Tokens     []entity.TokenInfo `yaml:"tokens"`
}

// LeaderboardConfig holds defaults for the partners and DAO views.
type LeaderboardConfig struct {
	DefaultMint string   `yaml:"defaultMint"`
	MinUIAmount *float64 `yaml:"minUIAmount"` // nil means the default
	DAOAddress  string   `yaml:"daoAddress"`
}

// LoadConfig loads configuration from a YAML file. A .env file next to the process is loaded first
// when present; HELIUS_API_KEY and COINGECKO_API_KEY override the YAML values.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}

	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse decodes YAML, applies env overrides and defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Indexer.APIKey = utils.GetEnv("HELIUS_API_KEY", c.Indexer.APIKey)
	c.PriceService.APIKey = utils.GetEnv("COINGECKO_API_KEY", c.PriceService.APIKey)
	c.Server.Port = utils.GetEnv("PORT", c.Server.Port)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		// a full holder walk can take many pages
		c.Server.WriteTimeout = 120
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Indexer.BaseURL == "" {
		c.Indexer.BaseURL = "https://mainnet.helius-rpc.com"
		logrus.Infof("Indexer.BaseURL not set, defaulting to %s", c.Indexer.BaseURL)
	}
	if c.Indexer.RequestTimeoutMillis == 0 {
		c.Indexer.RequestTimeoutMillis = 10000
		logrus.Infof("Indexer.RequestTimeoutMillis not set, defaulting to %d ms", c.Indexer.RequestTimeoutMillis)
	}
	if c.Indexer.PageSize == 0 {
		c.Indexer.PageSize = 1000
		logrus.Infof("Indexer.PageSize not set, defaulting to %d", c.Indexer.PageSize)
	}
	if c.Indexer.PageDelayMillis == nil {
		c.Indexer.PageDelayMillis = ptr(int64(50))
	}
	if c.Indexer.MaxPages == 0 {
		c.Indexer.MaxPages = 10000
	}
	if c.Indexer.AssetsPageLimit == 0 {
		c.Indexer.AssetsPageLimit = 1000
	}

	if c.PriceService.Provider == "" {
		c.PriceService.Provider = PriceProviderCoinGecko
	}
	c.PriceService.Provider = strings.ToLower(c.PriceService.Provider)
	if c.PriceService.BaseURL == "" && c.PriceService.Provider == PriceProviderCoinGecko {
		c.PriceService.BaseURL = "https://api.coingecko.com/api/v3"
		logrus.Infof("PriceService.BaseURL not set, defaulting to %s", c.PriceService.BaseURL)
	}
	if c.PriceService.APIKeyHeader == "" {
		c.PriceService.APIKeyHeader = "x-cg-demo-api-key"
	}
	if c.PriceService.AttemptTimeoutMillis == 0 {
		c.PriceService.AttemptTimeoutMillis = 5000
	}
	if c.PriceService.MaxAttempts == 0 {
		c.PriceService.MaxAttempts = 3
	}
	if c.PriceService.BackoffStepMillis == 0 {
		c.PriceService.BackoffStepMillis = 1000
	}
	if c.PriceService.MaxConcurrentPriceLookups == 0 {
		c.PriceService.MaxConcurrentPriceLookups = 8
	}

	if c.DEXScreener.BaseURL == "" {
		c.DEXScreener.BaseURL = "https://api.dexscreener.com"
	}
	if c.DEXScreener.ChainID == "" {
		c.DEXScreener.ChainID = "solana"
	}
	if c.DEXScreener.MaxTokensPerRequest == 0 {
		c.DEXScreener.MaxTokensPerRequest = 30
	}

	if c.Leaderboard.MinUIAmount == nil {
		c.Leaderboard.MinUIAmount = ptr(100000.0)
	}
}

func ptr[T any](v T) *T { return &v }

// PageDelay is the pause between holder pages.
func (c IndexerConfig) PageDelay() time.Duration {
	if c.PageDelayMillis == nil {
		return 0
	}
	return time.Duration(*c.PageDelayMillis) * time.Millisecond
}

// Threshold is the minimum UI amount a holder needs to be listed.
func (c LeaderboardConfig) Threshold() float64 {
	if c.MinUIAmount == nil {
		return 0
	}
	return *c.MinUIAmount
}

// Validate reports the first configuration problem, wrapped in entity.ErrConfiguration.
// Registry tokens are validated when the registry is built.
func (c *Config) Validate() error {
	var problems []string

	if c.Indexer.BaseURL == "" {
		problems = append(problems, "indexer.baseURL is required")
	}
	if c.Indexer.APIKey == "" {
		problems = append(problems, "indexer.apiKey (or HELIUS_API_KEY) is required")
	}
	if c.Indexer.PageSize <= 0 || c.Indexer.PageSize > 1000 {
		problems = append(problems, fmt.Sprintf("indexer.pageSize must be in 1..1000, got %d", c.Indexer.PageSize))
	}
	if c.Indexer.PageDelayMillis != nil && *c.Indexer.PageDelayMillis < 0 {
		problems = append(problems, "indexer.pageDelayMillis must not be negative")
	}
	if c.Indexer.MaxPages < 0 {
		problems = append(problems, "indexer.maxPages must not be negative")
	}

	switch c.PriceService.Provider {
	case PriceProviderCoinGecko, PriceProviderDEXScreener:
	default:
		problems = append(problems, fmt.Sprintf("priceService.provider %q is not one of %s, %s",
			c.PriceService.Provider, PriceProviderCoinGecko, PriceProviderDEXScreener))
	}
	if c.PriceService.MaxAttempts < 1 {
		problems = append(problems, "priceService.maxAttempts must be at least 1")
	}
	if c.PriceService.CacheTTLSeconds < 0 {
		problems = append(problems, "priceService.cacheTTLSeconds must not be negative")
	}

	if c.Leaderboard.DefaultMint != "" {
		if err := utils.ValidateAddress(c.Leaderboard.DefaultMint); err != nil {
			problems = append(problems, "leaderboard.defaultMint: "+err.Error())
		}
	}
	if c.Leaderboard.DAOAddress != "" {
		if err := utils.ValidateAddress(c.Leaderboard.DAOAddress); err != nil {
			problems = append(problems, "leaderboard.daoAddress: "+err.Error())
		}
	}
	if c.Leaderboard.MinUIAmount != nil && *c.Leaderboard.MinUIAmount < 0 {
		problems = append(problems, "leaderboard.minUIAmount must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}
