package compass

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	pathVault        = "/v1/erc4626_vaults/vault"
	pathVaults       = "/v2/earn/vaults"
	pathMorphoVaults = "/v1/morpho/vaults"
)

// Sort parameter casing. The listing endpoints have been observed to accept the
// snake_case spelling; whether camelCase is honoured or silently ignored is pinned
// by TestLiveSortParamCasing.
const (
	SortCaseSnake = "snake"
	SortCaseCamel = "camel"
)

type Vault struct {
	Address        string `json:"address"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	Chain          string `json:"chain,omitempty"`
	AssetAddress   string `json:"asset_address,omitempty"`
	AssetSymbol    string `json:"asset_symbol,omitempty"`
	Decimals       int    `json:"decimals,omitempty"`
	TotalAssets    string `json:"total_assets,omitempty"`
	TvlUsd         string `json:"tvl_usd,omitempty"`
	Apy            string `json:"apy,omitempty"`
	UserShares     string `json:"user_shares,omitempty"`
	UserAssets     string `json:"user_assets,omitempty"`
	Curator        string `json:"curator,omitempty"`
	SharePrice     string `json:"share_price,omitempty"`
	Protocol       string `json:"protocol,omitempty"`
	PerformanceFee string `json:"performance_fee,omitempty"`
}

type VaultList struct {
	Vaults []Vault `json:"vaults"`
	Total  int     `json:"total,omitempty"`
}

// VaultQuery filters and orders vault listings.
type VaultQuery struct {
	Chain     string
	OrderBy   string
	Direction string
	Limit     int
	Offset    int
	Asset     string
}

// Vault fetches a single ERC-4626 vault, including the user's holding when user is set.
func (c *Client) Vault(ctx context.Context, chain, address, user string) (*Vault, error) {
	q := queryOf("chain", chain, "vault_address", address, "user_address", user)
	var resp Vault
	if err := c.get(ctx, pathVault, q, &resp); err != nil {
		return nil, err
	}
	if resp.Address == "" {
		resp.Address = address
	}
	return &resp, nil
}

// Vaults lists earn vaults.
func (c *Client) Vaults(ctx context.Context, query VaultQuery) (*VaultList, error) {
	var resp VaultList
	if err := c.get(ctx, pathVaults, c.listingQuery(query), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MorphoVaults lists Morpho vaults.
func (c *Client) MorphoVaults(ctx context.Context, query VaultQuery) (*VaultList, error) {
	var resp VaultList
	if err := c.get(ctx, pathMorphoVaults, c.listingQuery(query), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) listingQuery(query VaultQuery) url.Values {
	q := queryOf("chain", query.Chain, "direction", query.Direction, "asset", query.Asset)
	if query.OrderBy != "" {
		q.Set(c.sortKey("order_by"), c.sortKey(query.OrderBy))
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		q.Set("offset", strconv.Itoa(query.Offset))
	}
	return q
}

// sortKey spells a snake_case identifier in the configured casing.
func (c *Client) sortKey(s string) string {
	if c.sortCase != SortCaseCamel {
		return s
	}
	return SnakeToCamel(s)
}

// SnakeToCamel converts tvl_usd to tvlUsd. Strings without underscores are returned unchanged.
func SnakeToCamel(s string) string {
	parts := strings.Split(s, "_")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// queryOf builds url.Values from key/value pairs, skipping empty values.
func queryOf(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	return q
}
