package logic

import (
	"context"
	"math/big"

	"compass-earn/internal/compass"
	"compass-earn/internal/format"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
)

type TokenLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewTokenLogic(ctx context.Context, svcCtx *svc.ServiceContext) *TokenLogic {
	return &TokenLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Overview 并发查询余额和价格，两者都成功才返回; 有原始余额时按 decimals 换算
func (l *TokenLogic) Overview(req *types.TokenOverviewReq) (*types.TokenOverviewResp, error) {
	token, err := requireAddress("token", req.Token)
	if err != nil {
		return nil, err
	}
	user, err := requireAddress("user", req.User)
	if err != nil {
		return nil, err
	}

	var (
		balance *compass.TokenBalance
		price   *compass.TokenPrice
	)
	err = mr.Finish(func() error {
		var err error
		balance, err = l.svcCtx.Compass.TokenBalance(l.ctx, req.Chain, token, user)
		return err
	}, func() error {
		var err error
		price, err = l.svcCtx.Compass.TokenPrice(l.ctx, req.Chain, token)
		return err
	})
	if err != nil {
		l.Errorf("查询代币信息失败 %s: %v", token, err)
		return nil, err
	}

	amount := balance.Amount
	if balance.BalanceRaw.IsSet() {
		amount = format.FormatUnits(balance.BalanceRaw.Big(), balance.Decimals)
	}
	return &types.TokenOverviewResp{
		Token:    token,
		Symbol:   balance.TokenSymbol,
		Balance:  amount,
		Decimals: balance.Decimals,
		Price:    price.Price,
		UsdValue: usdValue(amount, price.Price),
	}, nil
}

// usdValue multiplies two decimal strings, rounded to cents. Unparseable input yields "".
func usdValue(amount, price string) string {
	a, ok := new(big.Float).SetString(amount)
	if !ok {
		return ""
	}
	p, ok := new(big.Float).SetString(price)
	if !ok {
		return ""
	}
	return new(big.Float).Mul(a, p).Text('f', 2)
}
