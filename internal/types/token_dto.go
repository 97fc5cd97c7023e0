package types

type TokenOverviewReq struct {
	Chain string `form:"chain,default=base,options=ethereum|base|arbitrum"`
	Token string `form:"token"`
	User  string `form:"user"`
}

// TokenOverviewResp 余额和价格由两个并发请求得到
type TokenOverviewResp struct {
	Token    string `json:"token"`
	Symbol   string `json:"symbol"`
	Balance  string `json:"balance"`
	Decimals int    `json:"decimals"`
	Price    string `json:"price"`
	UsdValue string `json:"usdValue"`
}
