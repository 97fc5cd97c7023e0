package signer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// signatureHexLen is r (64) + s (64) + v (2).
const signatureHexLen = 130

var ErrInvalidSignature = errors.New("signer: invalid signature")

// ParseSignature splits a 65-byte hex signature into the EIP-7702 authorization
// tuple. r is the first 32 bytes, s the next 32 and the trailing byte is the
// recovery id, normalised to {0, 1} by subtracting 27 when it is 27 or more.
func ParseSignature(sig string, nonce uint64, address common.Address, chainID uint64) (evmTypes.SetCodeAuthorization, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(sig, "0x"), "0X")
	if len(raw) != signatureHexLen {
		return evmTypes.SetCodeAuthorization{}, fmt.Errorf("%w: want %d hex chars, got %d", ErrInvalidSignature, signatureHexLen, len(raw))
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return evmTypes.SetCodeAuthorization{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	v := b[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return evmTypes.SetCodeAuthorization{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, b[64])
	}

	auth := evmTypes.SetCodeAuthorization{
		ChainID: *uint256.NewInt(chainID),
		Address: address,
		Nonce:   nonce,
		V:       v,
	}
	auth.R.SetBytes(b[:32])
	auth.S.SetBytes(b[32:64])
	return auth, nil
}
