package compass

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

const (
	pathBundlerAuthorization = "/v1/transaction_bundler/authorization"
	pathBundlerExecute       = "/v1/transaction_bundler/execute"
)

// BundlerAuthorization is the unsigned EIP-7702 authorization the sender must sign.
type BundlerAuthorization struct {
	ChainId Quantity       `json:"chainId"`
	Address common.Address `json:"address"`
	Nonce   Quantity       `json:"nonce"`
}

// SignedAuthorization is the tuple sent back with a bundle.
type SignedAuthorization struct {
	ChainId uint64         `json:"chainId"`
	Address common.Address `json:"address"`
	Nonce   uint64         `json:"nonce"`
	R       string         `json:"r"`
	S       string         `json:"s"`
	YParity uint8          `json:"yParity"`
}

// NewSignedAuthorization renders r and s as 32-byte hex words.
func NewSignedAuthorization(chainID uint64, address common.Address, nonce uint64, r, s *uint256.Int, yParity uint8) SignedAuthorization {
	rb, sb := r.Bytes32(), s.Bytes32()
	return SignedAuthorization{
		ChainId: chainID,
		Address: address,
		Nonce:   nonce,
		R:       hexutil.Encode(rb[:]),
		S:       hexutil.Encode(sb[:]),
		YParity: yParity,
	}
}

// BundlerAction is one step of a bundle. Body is passed through as the API defines it.
type BundlerAction struct {
	ActionType string          `json:"action_type"`
	Body       json.RawMessage `json:"body"`
}

type BundlerExecuteRequest struct {
	Chain               string              `json:"chain"`
	Sender              string              `json:"sender"`
	SignedAuthorization SignedAuthorization `json:"signed_authorization"`
	Actions             []BundlerAction     `json:"actions"`
}

type bundlerAuthorizationRequest struct {
	Chain  string `json:"chain"`
	Sender string `json:"sender"`
}

// BundlerAuthorization fetches the authorization the sender signs to delegate its EOA.
func (c *Client) BundlerAuthorization(ctx context.Context, chain, sender string) (*BundlerAuthorization, error) {
	var resp BundlerAuthorization
	req := &bundlerAuthorizationRequest{Chain: chain, Sender: sender}
	if err := c.post(ctx, pathBundlerAuthorization, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BundlerExecute builds the type-4 transaction that runs the actions.
func (c *Client) BundlerExecute(ctx context.Context, req *BundlerExecuteRequest) (*UnsignedTransaction, error) {
	var resp UnsignedTransaction
	if err := c.post(ctx, pathBundlerExecute, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}
