package compass

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
)

var (
	// ErrEmptyPayload is returned when a response carries neither a transaction nor typed data.
	ErrEmptyPayload = errors.New("compass: response has no transaction or typed data")
	// ErrInvalidTransaction is returned when an unsigned transaction is missing required fields.
	ErrInvalidTransaction = errors.New("compass: invalid unsigned transaction")
)

// UnsignedTransaction is the transaction object returned by transaction-building endpoints.
type UnsignedTransaction struct {
	ChainId              Quantity       `json:"chainId"`
	From                 common.Address `json:"from"`
	To                   common.Address `json:"to"`
	Data                 hexutil.Bytes  `json:"data"`
	Value                Quantity       `json:"value"`
	Nonce                Quantity       `json:"nonce"`
	Gas                  Quantity       `json:"gas"`
	GasPrice             Quantity       `json:"gasPrice,omitempty"`
	MaxFeePerGas         Quantity       `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas Quantity       `json:"maxPriorityFeePerGas,omitempty"`

	// AuthorizationList makes the payload an EIP-7702 set-code transaction.
	AuthorizationList []evmTypes.SetCodeAuthorization `json:"authorizationList,omitempty"`
}

// Validate checks the fields every transaction needs before it can be signed.
func (t *UnsignedTransaction) Validate() error {
	if t == nil {
		return ErrEmptyPayload
	}
	if !t.ChainId.IsSet() || t.ChainId.Big().Sign() == 0 {
		return fmt.Errorf("%w: missing chainId", ErrInvalidTransaction)
	}
	if t.To == (common.Address{}) {
		return fmt.Errorf("%w: missing to", ErrInvalidTransaction)
	}
	return nil
}

// IsLegacy reports whether the payload prices gas with a single gasPrice.
func (t *UnsignedTransaction) IsLegacy() bool {
	return t.GasPrice.IsSet() && !t.MaxFeePerGas.IsSet()
}

// ToTransaction converts the payload into a go-ethereum transaction ready for signing.
// Nonce and gas fields must already be filled in.
func (t *UnsignedTransaction) ToTransaction() (*evmTypes.Transaction, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	to := t.To
	value := t.Value.Big()
	if value == nil {
		value = new(big.Int)
	}

	if t.IsLegacy() {
		return evmTypes.NewTx(&evmTypes.LegacyTx{
			Nonce:    t.Nonce.Uint64(),
			To:       &to,
			Value:    value,
			Gas:      t.Gas.Uint64(),
			GasPrice: t.GasPrice.Big(),
			Data:     t.Data,
		}), nil
	}

	if !t.MaxFeePerGas.IsSet() || !t.MaxPriorityFeePerGas.IsSet() {
		return nil, fmt.Errorf("%w: missing fee fields", ErrInvalidTransaction)
	}
	if len(t.AuthorizationList) > 0 {
		var fields [4]*uint256.Int
		for i, v := range []*big.Int{t.ChainId.Big(), t.MaxPriorityFeePerGas.Big(), t.MaxFeePerGas.Big(), value} {
			u, overflow := uint256.FromBig(v)
			if overflow {
				return nil, fmt.Errorf("%w: %s overflows uint256", ErrInvalidTransaction, v)
			}
			fields[i] = u
		}
		return evmTypes.NewTx(&evmTypes.SetCodeTx{
			ChainID:   fields[0],
			Nonce:     t.Nonce.Uint64(),
			GasTipCap: fields[1],
			GasFeeCap: fields[2],
			Gas:       t.Gas.Uint64(),
			To:        to,
			Value:     fields[3],
			Data:      t.Data,
			AuthList:  t.AuthorizationList,
		}), nil
	}
	return evmTypes.NewTx(&evmTypes.DynamicFeeTx{
		ChainID:   t.ChainId.Big(),
		Nonce:     t.Nonce.Uint64(),
		GasTipCap: t.MaxPriorityFeePerGas.Big(),
		GasFeeCap: t.MaxFeePerGas.Big(),
		Gas:       t.Gas.Uint64(),
		To:        &to,
		Value:     value,
		Data:      t.Data,
	}), nil
}

// TypedData is an EIP-712 payload that must be signed off-chain.
type TypedData struct {
	apitypes.TypedData
}

// Validate checks that the payload names a primary type that it also defines.
func (d *TypedData) Validate() error {
	if d == nil || d.PrimaryType == "" {
		return ErrEmptyPayload
	}
	if _, ok := d.Types[d.PrimaryType]; !ok {
		return fmt.Errorf("compass: typed data does not define primary type %s", d.PrimaryType)
	}
	return nil
}

// UnmarshalJSON accepts both the eth_signTypedData_v4 field names and the
// snake_case variant the API uses on some endpoints.
func (d *TypedData) UnmarshalJSON(data []byte) error {
	var raw struct {
		Types        apitypes.Types            `json:"types"`
		PrimaryType  string                    `json:"primaryType"`
		PrimaryType2 string                    `json:"primary_type"`
		Domain       apitypes.TypedDataDomain  `json:"domain"`
		Message      apitypes.TypedDataMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Types = raw.Types
	d.PrimaryType = raw.PrimaryType
	if d.PrimaryType == "" {
		d.PrimaryType = raw.PrimaryType2
	}
	d.Domain = raw.Domain
	d.Message = raw.Message
	return nil
}

func (d TypedData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.TypedData)
}
