package logic

import (
	"context"
	"errors"

	"compass-earn/internal/compass"
	"compass-earn/internal/format"
	"compass-earn/internal/model"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type PositionsLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewPositionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PositionsLogic {
	return &PositionsLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Positions 查询用户持仓
func (l *PositionsLogic) Positions(req *types.PositionsReq) (*types.PositionsResp, error) {
	owner, err := requireAddress("owner", req.Owner)
	if err != nil {
		return nil, err
	}

	resp, err := l.svcCtx.Compass.Positions(l.ctx, req.Chain, owner)
	if err != nil {
		l.Errorf("查询持仓失败 %s: %v", owner, err)
		return nil, err
	}

	out := &types.PositionsResp{
		Owner:              owner,
		Gradient:           format.WalletGradient(owner),
		EarnAccountAddress: resp.EarnAccountAddress,
		Positions:          resp.Positions,
	}
	if out.EarnAccountAddress == "" && l.svcCtx.EarnAccountsDao != nil {
		account, err := l.svcCtx.EarnAccountsDao.FindOneByOwner(l.ctx, owner, req.Chain)
		switch {
		case err == nil:
			out.EarnAccountAddress = account.EarnAccountAddress
		case !errors.Is(err, model.ErrNotFound):
			l.Errorf("查询 earn account 失败: %v", err)
		}
	}
	if out.Positions == nil {
		out.Positions = []compass.Position{}
	}
	return out, nil
}
