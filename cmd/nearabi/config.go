package main

import (
	ipfs "github.com/dipdup-io/ipfs-tools"
	"github.com/dipdup-net/go-lib/config"
)

// Config -
type Config struct {
	config.Config `yaml:",inline"`
	LogLevel      string      `yaml:"log_level" validate:"omitempty,oneof=debug trace info warn error fatal panic"`
	Node          string      `yaml:"node" validate:"omitempty"`
	ABI           ABIConfig   `yaml:"abi"`
	Batch         BatchConfig `yaml:"batch"`
}

// Substitute -
func (c *Config) Substitute() error {
	if err := c.Config.Substitute(); err != nil {
		return err
	}
	return nil
}

// Load -
func Load(filename string) (cfg Config, err error) {
	err = config.Parse(filename, &cfg)
	return
}

// ABIConfig -
type ABIConfig struct {
	IPFS        IPFS   `yaml:"ipfs"`
	HTTPTimeout uint64 `yaml:"http_timeout" validate:"omitempty,min=1"`
	CacheSize   int64  `yaml:"cache_size" validate:"omitempty,min=1"`
	CacheTTL    uint64 `yaml:"cache_ttl" validate:"omitempty,min=1"`
	Strict      bool   `yaml:"strict_presence"`
}

// IPFS -
type IPFS struct {
	Dir       string          `yaml:"dir"`
	Blacklist []string        `yaml:"blacklist"`
	Providers []ipfs.Provider `yaml:"providers" validate:"omitempty"`
}

// BatchConfig -
type BatchConfig struct {
	WorkersCount int `yaml:"workers_count" validate:"omitempty,min=1"`
}

// nodeName - datasource used as node RPC endpoint
func (c Config) nodeName() string {
	if c.Node == "" {
		return "node"
	}
	return c.Node
}
