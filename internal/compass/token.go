package compass

import "context"

const (
	pathTokenBalance = "/v1/token/balance"
	pathTokenPrice   = "/v1/token/price"
)

type TokenBalance struct {
	Token       string   `json:"token_address"`
	TokenSymbol string   `json:"token_symbol"`
	Amount      string   `json:"amount"`
	BalanceRaw  Quantity `json:"balance_raw"`
	Decimals    int      `json:"decimals"`
}

type TokenPrice struct {
	Token string `json:"token"`
	Price string `json:"price"`
}

func (c *Client) TokenBalance(ctx context.Context, chain, token, user string) (*TokenBalance, error) {
	var resp TokenBalance
	if err := c.get(ctx, pathTokenBalance, queryOf("chain", chain, "token", token, "user", user), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) TokenPrice(ctx context.Context, chain, token string) (*TokenPrice, error) {
	var resp TokenPrice
	if err := c.get(ctx, pathTokenPrice, queryOf("chain", chain, "token", token), &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		resp.Token = token
	}
	return &resp, nil
}
