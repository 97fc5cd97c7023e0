package logic

import (
	"strings"

	"compass-earn/internal/constant"
	"compass-earn/internal/errorx"
	"compass-earn/internal/format"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// requireAddress checks that v is a 20-byte hex address and returns it checksummed.
func requireAddress(field, v string) (string, error) {
	if !common.IsHexAddress(v) {
		return "", errorx.BadRequest(field + " must be a 0x-prefixed 20-byte address")
	}
	return common.HexToAddress(v).Hex(), nil
}

// maxTokenDecimals bounds amounts the API is sent; no ERC-20 here uses more.
const maxTokenDecimals = 18

// requireAmount checks that v is a positive plain decimal number such as "1.5".
func requireAmount(v string) (string, error) {
	v = strings.TrimSpace(v)
	units, err := format.ParseUnits(v, maxTokenDecimals)
	if err != nil || units.Sign() <= 0 {
		return "", errorx.BadRequest("amount must be a positive decimal number")
	}
	return v, nil
}

func requireChain(chain string) error {
	if !constant.IsChainSupported(chain) {
		return errorx.BadRequest("unsupported chain: " + chain)
	}
	return nil
}

func requireTxHash(v string) (common.Hash, error) {
	b, err := hexutil.Decode(v)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, errorx.BadRequest("txHash must be a 0x-prefixed 32-byte hash")
	}
	return common.BytesToHash(b), nil
}
