// Package signer holds a local ECDSA key and signs transactions, EIP-712 typed
// data and EIP-7702 authorizations with it.
package signer

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/holiman/uint256"
)

var ErrNoKey = errors.New("signer: private key not configured")

type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// New wraps an existing key.
func New(key *ecdsa.PrivateKey) *Signer {
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// FromHex parses a hex private key, with or without 0x.
func FromHex(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, ErrNoKey
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return New(key), nil
}

// Generate creates a signer with a fresh random key.
func Generate() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return New(key), nil
}

// PrivateKeyHex exports the key, without 0x, in the form FromHex accepts.
func (s *Signer) PrivateKeyHex() string {
	return hex.EncodeToString(crypto.FromECDSA(s.key))
}

func (s *Signer) Address() common.Address {
	return s.address
}

// SignTransaction signs tx for the chain id it carries. Legacy transactions
// carry none before signing and are signed with EIP-155 for chainID.
func (s *Signer) SignTransaction(tx *evmTypes.Transaction, chainID *big.Int) (*evmTypes.Transaction, error) {
	id := chainID
	if tx.Type() != evmTypes.LegacyTxType {
		id = tx.ChainId()
	}
	if id == nil || id.Sign() == 0 {
		return nil, errors.New("signer: chain id required")
	}
	signed, err := evmTypes.SignTx(tx, evmTypes.LatestSignerForChainID(id), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

// SignTypedData returns the 65-byte r||s||v signature over the EIP-712 digest,
// with v in {27, 28} as wallets produce it.
func (s *Signer) SignTypedData(td apitypes.TypedData) (string, error) {
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return "", fmt.Errorf("failed to hash typed data: %w", err)
	}
	return s.signDigest(digest)
}

// SignAuthorization signs the EIP-7702 authorization delegating this account to
// contract and returns it in the same r||s||v hex form a wallet would.
func (s *Signer) SignAuthorization(chainID uint64, contract common.Address, nonce uint64) (string, error) {
	auth := evmTypes.SetCodeAuthorization{
		ChainID: *uint256.NewInt(chainID),
		Address: contract,
		Nonce:   nonce,
	}
	digest := auth.SigHash()
	return s.signDigest(digest.Bytes())
}

// RecoverTypedData returns the address that produced sig over td.
func RecoverTypedData(td apitypes.TypedData, sig string) (common.Address, error) {
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to hash typed data: %w", err)
	}
	raw, err := hexutil.Decode(sig)
	if err != nil || len(raw) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}
	if raw[crypto.RecoveryIDOffset] >= 27 {
		raw[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(digest, raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

func (s *Signer) signDigest(digest []byte) (string, error) {
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign digest: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}
