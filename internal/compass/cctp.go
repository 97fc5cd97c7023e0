package compass

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	pathCctpBurn = "/v2/cctp/burn"
	pathCctpMint = "/v2/cctp/mint"
)

type CctpBurnRequest struct {
	Chain            string `json:"chain"`
	DestinationChain string `json:"destination_chain"`
	Sender           string `json:"sender"`
	Recipient        string `json:"recipient"`
	Amount           string `json:"amount"`
	// DepositToEarnAccount routes minted USDC into the recipient's earn account.
	DepositToEarnAccount bool `json:"deposit_to_earn_account,omitempty"`
}

type CctpBurnResponse struct {
	Transaction *UnsignedTransaction `json:"transaction"`
	// Approval is set when the token messenger first needs a USDC allowance.
	Approval *UnsignedTransaction `json:"approval,omitempty"`
}

type CctpMintRequest struct {
	Chain       string        `json:"chain"`
	Sender      string        `json:"sender"`
	Message     hexutil.Bytes `json:"message"`
	Attestation hexutil.Bytes `json:"attestation"`
}

// CctpBurn builds the source-chain burn for a cross-chain USDC transfer.
func (c *Client) CctpBurn(ctx context.Context, req *CctpBurnRequest) (*CctpBurnResponse, error) {
	var resp CctpBurnResponse
	if err := c.post(ctx, pathCctpBurn, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Transaction.Validate(); err != nil {
		return nil, err
	}
	if resp.Approval != nil {
		if err := resp.Approval.Validate(); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// CctpMint builds the destination-chain mint once the burn is attested.
func (c *Client) CctpMint(ctx context.Context, req *CctpMintRequest) (*UnsignedTransaction, error) {
	var resp UnsignedTransaction
	if err := c.post(ctx, pathCctpMint, req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}
