package compass

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

const (
	pathManage        = "/v2/earn/manage"
	pathCreateAccount = "/v2/earn/create_account"
	pathPositions     = "/v2/earn/positions"
	pathSponsor       = "/v2/gas_sponsorship/prepare"
)

// Venue identifies where funds are routed.
type Venue struct {
	Type         string `json:"type"`
	VaultAddress string `json:"vault_address,omitempty"`
}

// ManageRequest is a declarative deposit/withdraw intent.
type ManageRequest struct {
	Owner          string `json:"owner"`
	Chain          string `json:"chain"`
	Venue          Venue  `json:"venue"`
	Action         string `json:"action"`
	Amount         string `json:"amount"`
	GasSponsorship bool   `json:"gas_sponsorship"`
}

// ManageResponse carries either a raw unsigned transaction or, for sponsored
// flows, typed data the owner signs off-chain.
type ManageResponse struct {
	Transaction *UnsignedTransaction `json:"transaction,omitempty"`
	TypedData   *TypedData           `json:"eip_712,omitempty"`
}

// Validate ensures exactly one well-formed payload is present.
func (r *ManageResponse) Validate() error {
	switch {
	case r.Transaction != nil && r.TypedData != nil:
		return fmt.Errorf("compass: response carries both a transaction and typed data")
	case r.Transaction != nil:
		return r.Transaction.Validate()
	case r.TypedData != nil:
		return r.TypedData.Validate()
	default:
		return ErrEmptyPayload
	}
}

// Manage asks the API to build a deposit or withdraw for an earn account.
func (c *Client) Manage(ctx context.Context, req *ManageRequest) (*ManageResponse, error) {
	var resp ManageResponse
	if err := c.post(ctx, pathManage, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

type CreateAccountRequest struct {
	Chain       string `json:"chain"`
	Owner       string `json:"owner"`
	Sender      string `json:"sender"`
	EstimateGas bool   `json:"estimate_gas"`
}

type CreateAccountResponse struct {
	Transaction        *UnsignedTransaction `json:"transaction"`
	EarnAccountAddress common.Address       `json:"earn_account_address"`
}

// CreateAccount builds the transaction deploying an owner's earn account proxy.
func (c *Client) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreateAccountResponse, error) {
	var resp CreateAccountResponse
	if err := c.post(ctx, pathCreateAccount, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Transaction.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

type Position struct {
	VaultAddress   string `json:"vault_address"`
	VaultName      string `json:"vault_name"`
	TokenSymbol    string `json:"token_symbol"`
	TokenAddress   string `json:"token_address"`
	Shares         string `json:"shares"`
	AmountInTokens string `json:"amount_in_underlying_token"`
	UsdValue       string `json:"usd_value,omitempty"`
	Pnl            string `json:"pnl,omitempty"`
}

type PositionsResponse struct {
	EarnAccountAddress string     `json:"earn_account_address,omitempty"`
	Positions          []Position `json:"positions"`
}

// Positions lists an owner's open vault positions on a chain.
func (c *Client) Positions(ctx context.Context, chain, owner string) (*PositionsResponse, error) {
	var resp PositionsResponse
	if err := c.get(ctx, pathPositions, queryOf("chain", chain, "owner", owner), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SponsorRequest hands an owner's typed-data signature to the sponsor endpoint.
type SponsorRequest struct {
	Owner     string     `json:"owner"`
	Chain     string     `json:"chain"`
	Sender    string     `json:"sender"`
	TypedData *TypedData `json:"eip_712"`
	Signature string     `json:"signature"`
}

type SponsorResponse struct {
	Transaction *UnsignedTransaction `json:"transaction"`
}

// PrepareSponsored turns a signed typed-data authorization into a transaction the
// sponsor signs and pays gas for.
func (c *Client) PrepareSponsored(ctx context.Context, req *SponsorRequest) (*UnsignedTransaction, error) {
	var resp SponsorResponse
	if err := c.post(ctx, pathSponsor, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Transaction.Validate(); err != nil {
		return nil, err
	}
	return resp.Transaction, nil
}
