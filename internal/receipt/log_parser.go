// Package receipt decodes the events of a mined transaction into a summary of
// what it did to tokens and vaults.
package receipt

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// 事件签名常量
var (
	// TransferEventSignature Transfer(address,address,uint256)
	TransferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
	// ApprovalEventSignature Approval(address,address,uint256)
	ApprovalEventSignature = crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))
	// VaultDepositEventSignature ERC-4626 Deposit(sender, owner, assets, shares)
	VaultDepositEventSignature = crypto.Keccak256Hash([]byte("Deposit(address,address,uint256,uint256)"))
	// VaultWithdrawEventSignature ERC-4626 Withdraw(sender, receiver, owner, assets, shares)
	VaultWithdrawEventSignature = crypto.Keccak256Hash([]byte("Withdraw(address,address,address,uint256,uint256)"))
	// DepositForBurnEventSignature CCTP v2 TokenMessenger
	DepositForBurnEventSignature = crypto.Keccak256Hash([]byte("DepositForBurn(address,uint256,address,bytes32,uint32,bytes32,bytes32,uint256,uint32,bytes)"))
)

const (
	EventTransfer       = "Transfer"
	EventApproval       = "Approval"
	EventVaultDeposit   = "VaultDeposit"
	EventVaultWithdraw  = "VaultWithdraw"
	EventDepositForBurn = "DepositForBurn"
)

// Event is one decoded log.
type Event struct {
	EventType string `json:"eventType"`
	Contract  string `json:"contract"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Amount    string `json:"amount"`
	// Shares is set for vault events.
	Shares string `json:"shares,omitempty"`
	// DestinationDomain is set for CCTP burns.
	DestinationDomain uint32 `json:"destinationDomain,omitempty"`
	LogIndex          uint   `json:"logIndex"`
}

// ParseLogs decodes the logs of r it recognises, in log order.
func ParseLogs(r *evmTypes.Receipt) []Event {
	if r == nil {
		return nil
	}
	var events []Event
	for _, vLog := range r.Logs {
		if vLog == nil || len(vLog.Topics) == 0 {
			continue
		}

		var event *Event
		switch vLog.Topics[0] {
		case TransferEventSignature:
			event = parseTransferEvent(vLog, EventTransfer)
		case ApprovalEventSignature:
			event = parseTransferEvent(vLog, EventApproval)
		case VaultDepositEventSignature:
			event = parseVaultDepositEvent(vLog)
		case VaultWithdrawEventSignature:
			event = parseVaultWithdrawEvent(vLog)
		case DepositForBurnEventSignature:
			event = parseDepositForBurnEvent(vLog)
		}
		if event != nil {
			event.Contract = vLog.Address.Hex()
			event.LogIndex = vLog.Index
			events = append(events, *event)
		}
	}
	return events
}

// parseTransferEvent covers Transfer and Approval, which share a layout.
func parseTransferEvent(vLog *evmTypes.Log, eventType string) *Event {
	if len(vLog.Topics) < 3 || len(vLog.Data) != 32 {
		return nil
	}
	return &Event{
		EventType: eventType,
		From:      topicAddress(vLog.Topics[1]),
		To:        topicAddress(vLog.Topics[2]),
		Amount:    word(vLog.Data, 0).String(),
	}
}

func parseVaultDepositEvent(vLog *evmTypes.Log) *Event {
	if len(vLog.Topics) < 3 || len(vLog.Data) < 64 {
		return nil
	}
	return &Event{
		EventType: EventVaultDeposit,
		From:      topicAddress(vLog.Topics[1]),
		To:        topicAddress(vLog.Topics[2]),
		Amount:    word(vLog.Data, 0).String(),
		Shares:    word(vLog.Data, 1).String(),
	}
}

func parseVaultWithdrawEvent(vLog *evmTypes.Log) *Event {
	if len(vLog.Topics) < 4 || len(vLog.Data) < 64 {
		return nil
	}
	// assets leave the vault owned by topic 3 towards the receiver in topic 2
	return &Event{
		EventType: EventVaultWithdraw,
		From:      topicAddress(vLog.Topics[3]),
		To:        topicAddress(vLog.Topics[2]),
		Amount:    word(vLog.Data, 0).String(),
		Shares:    word(vLog.Data, 1).String(),
	}
}

func parseDepositForBurnEvent(vLog *evmTypes.Log) *Event {
	if len(vLog.Topics) < 3 || len(vLog.Data) < 96 {
		return nil
	}
	recipient := common.BytesToAddress(vLog.Data[32:64])
	return &Event{
		EventType:         EventDepositForBurn,
		From:              topicAddress(vLog.Topics[2]),
		To:                recipient.Hex(),
		Amount:            word(vLog.Data, 0).String(),
		DestinationDomain: uint32(word(vLog.Data, 2).Uint64()),
	}
}

func topicAddress(h common.Hash) string {
	return common.BytesToAddress(h.Bytes()).Hex()
}

// word returns the i-th 32-byte ABI word of data.
func word(data []byte, i int) *big.Int {
	return new(big.Int).SetBytes(data[i*32 : (i+1)*32])
}
