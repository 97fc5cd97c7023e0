package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/rest"
)

type ChainConf struct {
	Name        string `json:"Name"`
	RpcUrl      string `json:"RpcUrl"`
	ChainId     int64  `json:"ChainId"`
	ExplorerUrl string `json:",optional"`
	// CctpDomain is Circle's domain id for the chain (Ethereum=0, Arbitrum=3, Base=6).
	CctpDomain  uint32 `json:",optional"`
	UsdcAddress string `json:",optional"`
}

// ExplorerTxUrl 构建区块浏览器交易链接
func (c ChainConf) ExplorerTxUrl(txHash string) string {
	if c.ExplorerUrl == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(c.ExplorerUrl, "/"), txHash)
}

type CompassConf struct {
	ApiUrl  string        `json:",default=https://api.compasslabs.ai"`
	ApiKey  string        `json:",optional"`
	Timeout time.Duration `json:",default=30s"`
	// SortParamCase selects how listing sort keys are sent upstream: "snake" or "camel".
	SortParamCase string `json:",default=snake,options=snake|camel"`
}

type PollConf struct {
	Interval    time.Duration `json:",default=3s"`
	Timeout     time.Duration `json:",default=2m"`
	MaxAttempts uint64        `json:",optional"`
}

type Config struct {
	rest.RestConf
	Postgres struct {
		DSN string `json:",optional"`
	}
	Compass CompassConf
	Circle  struct {
		IrisUrl string `json:",default=https://iris-api.circle.com"`
		// attestation polling is slower than receipt polling
		Poll PollConf
	}
	Signer struct {
		PrivateKey        string `json:",optional"`
		SponsorPrivateKey string `json:",optional"`
	}
	// Poll controls receipt confirmation polling.
	Poll       PollConf
	VaultCache struct {
		Ttl          time.Duration `json:",default=5m"`
		MaxEntrySize int           `json:",default=65536"`
	}
	// Chains maps a chain name (e.g., "base") to its configuration.
	Chains map[string]ChainConf
}

// Chain returns the configuration of a named chain.
func (c Config) Chain(name string) (ChainConf, error) {
	chainConf, ok := c.Chains[name]
	if !ok {
		return ChainConf{}, fmt.Errorf("unsupported chain: %s", name)
	}
	if chainConf.Name == "" {
		chainConf.Name = name
	}
	return chainConf, nil
}
