package web3

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TokenContract describes an ERC-20 deployment on the configured chain.
type TokenContract struct {
	Symbol  string `yaml:"symbol"`
	Address string `yaml:"address"`
}

// ChainConfig is the on-disk description of the chain a live balance
// client talks to. The native symbol is read from the account balance
// directly instead of a contract call.
type ChainConfig struct {
	Name         string          `yaml:"name"`
	RPCURL       string          `yaml:"rpc_url"`
	NativeSymbol string          `yaml:"native_symbol"`
	Tokens       []TokenContract `yaml:"tokens"`
}

// DefaultChainConfig targets Ethereum mainnet with the common stable
// token contracts wired.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		Name:         "ethereum",
		NativeSymbol: "ETH",
		Tokens: []TokenContract{
			{Symbol: "USDC", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"},
			{Symbol: "USDT", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"},
			{Symbol: "DAI", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F"},
		},
	}
}

// LoadChainConfig reads a chain definition from a YAML file. An empty
// path yields the default mainnet configuration.
func LoadChainConfig(path string) (ChainConfig, error) {
	if path == "" {
		return DefaultChainConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ChainConfig{}, fmt.Errorf("read chain config: %w", err)
	}
	var cfg ChainConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return ChainConfig{}, fmt.Errorf("parse chain config: %w", err)
	}
	if cfg.NativeSymbol == "" {
		cfg.NativeSymbol = "ETH"
	}
	return cfg, nil
}

// TokenAddress returns the contract address registered for a symbol.
func (c ChainConfig) TokenAddress(symbol string) (string, bool) {
	for _, t := range c.Tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t.Address, true
		}
	}
	return "", false
}
