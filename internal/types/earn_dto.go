package types

import (
	"compass-earn/internal/compass"
	"compass-earn/internal/receipt"
)

// VaultReq 查询单个金库
type VaultReq struct {
	Address string `path:"address"`
	Chain   string `form:"chain,default=base,options=ethereum|base|arbitrum"`
	User    string `form:"user,optional"` // 传入时返回该用户在金库中的持仓
}

// VaultListReq 金库列表查询
type VaultListReq struct {
	Chain     string `form:"chain,default=base,options=ethereum|base|arbitrum"`
	OrderBy   string `form:"orderBy,optional"` // e.g. "tvl_usd", "apy_7d"
	Direction string `form:"direction,default=desc,options=asc|desc"`
	Limit     int    `form:"limit,default=50,range=[1:200]"`
	Offset    int    `form:"offset,default=0"`
	Asset     string `form:"asset,optional"`
}

// PrepareManageReq is the body of /deposit/prepare and /withdraw/prepare.
type PrepareManageReq struct {
	VaultAddress   string `json:"vaultAddress"`
	Owner          string `json:"owner"`
	Amount         string `json:"amount"` // 人类可读数量，如 "1.5"
	Chain          string `json:"chain,default=base,options=ethereum|base|arbitrum"`
	GasSponsorship bool   `json:"gasSponsorship,optional"`
}

const (
	PayloadTransaction = "transaction"
	PayloadTypedData   = "eip712"
)

// PrepareResp returns exactly one payload for the caller's wallet to sign.
type PrepareResp struct {
	Kind        string                       `json:"kind"` // transaction | eip712
	Chain       string                       `json:"chain"`
	Transaction *compass.UnsignedTransaction `json:"transaction,omitempty"`
	TypedData   *compass.TypedData           `json:"eip712,omitempty"`
}

type PositionsReq struct {
	Owner string `form:"owner"`
	Chain string `form:"chain,default=base,options=ethereum|base|arbitrum"`
}

type PositionsResp struct {
	Owner              string             `json:"owner"`
	Gradient           string             `json:"gradient"`
	EarnAccountAddress string             `json:"earnAccountAddress,omitempty"`
	Positions          []compass.Position `json:"positions"`
}

type PrepareEarnAccountReq struct {
	Owner  string `json:"owner"`
	Chain  string `json:"chain,default=base,options=ethereum|base|arbitrum"`
	Sender string `json:"sender,optional"` // 默认为 owner
}

type PrepareEarnAccountResp struct {
	EarnAccountAddress string                       `json:"earnAccountAddress"`
	Transaction        *compass.UnsignedTransaction `json:"transaction"`
}

// SponsorSubmitReq carries an owner's signature over typed data returned by a
// prepare call with gas sponsorship.
type SponsorSubmitReq struct {
	Owner     string `json:"owner"`
	Chain     string `json:"chain,default=base,options=ethereum|base|arbitrum"`
	Action    string `json:"action,default=DEPOSIT,options=DEPOSIT|WITHDRAW"`
	TypedData string `json:"typedData"` // JSON 编码的 EIP-712 数据
	Signature string `json:"signature"`
}

// SubmitResp 交易提交结果
type SubmitResp struct {
	TxHash      string          `json:"txHash"`
	Message     string          `json:"message"`
	ExplorerUrl string          `json:"explorerUrl,omitempty"`
	Chain       string          `json:"chain"`
	Status      string          `json:"status"`
	BlockNumber uint64          `json:"blockNumber,omitempty"`
	Events      []receipt.Event `json:"events,omitempty"`
}
