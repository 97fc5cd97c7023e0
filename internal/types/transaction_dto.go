package types

type AttestationReq struct {
	Chain  string `form:"chain,options=ethereum|base|arbitrum"` // 源链
	TxHash string `form:"txHash"`
}

// AttestationResp 单次查询的 CCTP attestation 状态
type AttestationResp struct {
	Status      string `json:"status"`
	Ready       bool   `json:"ready"`
	Message     string `json:"message,omitempty"`
	Attestation string `json:"attestation,omitempty"`
}

type TransactionReq struct {
	Hash string `path:"hash"`
}

type TransactionListReq struct {
	Owner string `form:"owner"`
	Limit int    `form:"limit,default=20,range=[1:100]"`
}

// TransactionResp 已记录的交易
type TransactionResp struct {
	TxHash      string `json:"txHash"`
	Chain       string `json:"chain"`
	Action      string `json:"action"`
	Owner       string `json:"owner"`
	From        string `json:"from"`
	To          string `json:"to"`
	Status      string `json:"status"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	ExplorerUrl string `json:"explorerUrl,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type TransactionListResp struct {
	Transactions []TransactionResp `json:"transactions"`
}

// BridgeReq CCTP 跨链转账 (CLI)
type BridgeReq struct {
	FromChain            string
	ToChain              string
	Recipient            string
	Amount               string
	DepositToEarnAccount bool
}

type BridgeResp struct {
	BurnTxHash  string `json:"burnTxHash"`
	MintTxHash  string `json:"mintTxHash"`
	BurnTxLink  string `json:"burnTxLink,omitempty"`
	MintTxLink  string `json:"mintTxLink,omitempty"`
	Attestation string `json:"attestation"`
	Message     string `json:"message"`
}
