package logic

import (
	"context"
	"fmt"

	"compass-earn/internal/compass"
	"compass-earn/internal/constant"
	"compass-earn/internal/pipeline"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

const venueTypeVault = "VAULT"

// ManageLogic 存取款: prepare 只返回待签名数据，execute 使用服务端密钥完成整个流程
type ManageLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewManageLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ManageLogic {
	return &ManageLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *ManageLogic) PrepareDeposit(req *types.PrepareManageReq) (*types.PrepareResp, error) {
	return l.prepare(constant.ActionDeposit, req)
}

func (l *ManageLogic) PrepareWithdraw(req *types.PrepareManageReq) (*types.PrepareResp, error) {
	return l.prepare(constant.ActionWithdraw, req)
}

func (l *ManageLogic) prepare(action constant.Action, req *types.PrepareManageReq) (*types.PrepareResp, error) {
	manageReq, err := l.manageRequest(action, req)
	if err != nil {
		return nil, err
	}
	l.Infof("准备 %s: owner=%s vault=%s amount=%s", action, manageReq.Owner, manageReq.Venue.VaultAddress, manageReq.Amount)

	resp, err := l.svcCtx.Compass.Manage(l.ctx, manageReq)
	if err != nil {
		l.Errorf("Compass manage 调用失败: %v", err)
		return nil, err
	}

	out := &types.PrepareResp{Chain: req.Chain}
	if resp.TypedData != nil {
		out.Kind = types.PayloadTypedData
		out.TypedData = resp.TypedData
	} else {
		out.Kind = types.PayloadTransaction
		out.Transaction = resp.Transaction
	}
	return out, nil
}

// Execute signs and submits a deposit or withdraw with the configured owner key.
// req.Owner is ignored; the owner is the key's address. With gas sponsorship the
// owner only signs typed data and the sponsor key submits.
func (l *ManageLogic) Execute(action constant.Action, req *types.PrepareManageReq) (*types.SubmitResp, error) {
	owner := l.svcCtx.Signer
	if owner == nil {
		return nil, pipeline.ErrSignerRequired
	}
	req.Owner = owner.Address().Hex()
	manageReq, err := l.manageRequest(action, req)
	if err != nil {
		return nil, err
	}
	meta := pipeline.Meta{Chain: req.Chain, Action: action, Owner: manageReq.Owner}

	if !req.GasSponsorship {
		submitter, closeFn, err := l.svcCtx.Submitter(l.ctx, req.Chain, owner)
		if err != nil {
			return nil, err
		}
		defer closeFn()

		source := pipeline.SourceFunc(func(ctx context.Context) (*compass.UnsignedTransaction, error) {
			resp, err := l.svcCtx.Compass.Manage(ctx, manageReq)
			if err != nil {
				return nil, err
			}
			if resp.Transaction == nil {
				return nil, fmt.Errorf("expected a transaction, got typed data")
			}
			return resp.Transaction, nil
		})
		res, err := submitter.Run(l.ctx, meta, source)
		return buildSubmitResp(l.Logger, l.svcCtx, req.Chain, string(action), res, err)
	}

	submitter, closeFn, err := l.svcCtx.Submitter(l.ctx, req.Chain, l.svcCtx.Sponsor)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	flow := &pipeline.Sponsored{Owner: owner, Sponsor: l.svcCtx.Compass, Submitter: submitter}
	source := pipeline.TypedDataFunc(func(ctx context.Context) (*compass.TypedData, error) {
		resp, err := l.svcCtx.Compass.Manage(ctx, manageReq)
		if err != nil {
			return nil, err
		}
		if resp.TypedData == nil {
			return nil, fmt.Errorf("expected typed data, got a transaction")
		}
		return resp.TypedData, nil
	})
	res, err := flow.Run(l.ctx, meta, source)
	return buildSubmitResp(l.Logger, l.svcCtx, req.Chain, string(action), res, err)
}

func (l *ManageLogic) manageRequest(action constant.Action, req *types.PrepareManageReq) (*compass.ManageRequest, error) {
	if err := requireChain(req.Chain); err != nil {
		return nil, err
	}
	vault, err := requireAddress("vaultAddress", req.VaultAddress)
	if err != nil {
		return nil, err
	}
	owner, err := requireAddress("owner", req.Owner)
	if err != nil {
		return nil, err
	}
	amount, err := requireAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	return &compass.ManageRequest{
		Owner:          owner,
		Chain:          req.Chain,
		Venue:          compass.Venue{Type: venueTypeVault, VaultAddress: vault},
		Action:         string(action),
		Amount:         amount,
		GasSponsorship: req.GasSponsorship,
	}, nil
}
