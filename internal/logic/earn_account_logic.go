package logic

import (
	"context"

	"compass-earn/internal/compass"
	"compass-earn/internal/constant"
	"compass-earn/internal/model"
	"compass-earn/internal/pipeline"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// EarnAccountLogic 创建 earn account (每个 owner 在每条链上一个代理合约)
type EarnAccountLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewEarnAccountLogic(ctx context.Context, svcCtx *svc.ServiceContext) *EarnAccountLogic {
	return &EarnAccountLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// PrepareCreate returns the deployment transaction for the caller to sign.
func (l *EarnAccountLogic) PrepareCreate(req *types.PrepareEarnAccountReq) (*types.PrepareEarnAccountResp, error) {
	createReq, err := l.createRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := l.svcCtx.Compass.CreateAccount(l.ctx, createReq)
	if err != nil {
		l.Errorf("Compass create_account 调用失败: %v", err)
		return nil, err
	}
	return &types.PrepareEarnAccountResp{
		EarnAccountAddress: resp.EarnAccountAddress.Hex(),
		Transaction:        resp.Transaction,
	}, nil
}

// Create deploys the configured signer's earn account and stores its address.
func (l *EarnAccountLogic) Create(chainName string) (*types.SubmitResp, error) {
	owner := l.svcCtx.Signer
	if owner == nil {
		return nil, pipeline.ErrSignerRequired
	}
	createReq, err := l.createRequest(&types.PrepareEarnAccountReq{Owner: owner.Address().Hex(), Chain: chainName})
	if err != nil {
		return nil, err
	}

	submitter, closeFn, err := l.svcCtx.Submitter(l.ctx, chainName, owner)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var account string
	source := pipeline.SourceFunc(func(ctx context.Context) (*compass.UnsignedTransaction, error) {
		resp, err := l.svcCtx.Compass.CreateAccount(ctx, createReq)
		if err != nil {
			return nil, err
		}
		account = resp.EarnAccountAddress.Hex()
		l.Infof("earn account 地址: %s", account)
		return resp.Transaction, nil
	})
	meta := pipeline.Meta{Chain: chainName, Action: constant.ActionCreateAccount, Owner: createReq.Owner}
	res, err := submitter.Run(l.ctx, meta, source)
	out, err := buildSubmitResp(l.Logger, l.svcCtx, chainName, string(constant.ActionCreateAccount), res, err)
	if err != nil {
		return out, err
	}

	if l.svcCtx.EarnAccountsDao != nil {
		err := l.svcCtx.EarnAccountsDao.Insert(l.ctx, &model.EarnAccounts{
			Owner:              createReq.Owner,
			Chain:              chainName,
			EarnAccountAddress: account,
			TxHash:             out.TxHash,
		})
		if err != nil {
			l.Errorf("保存 earn account 失败: %v", err)
		}
	}
	out.Message = "earn account " + account + " created"
	return out, nil
}

func (l *EarnAccountLogic) createRequest(req *types.PrepareEarnAccountReq) (*compass.CreateAccountRequest, error) {
	if err := requireChain(req.Chain); err != nil {
		return nil, err
	}
	owner, err := requireAddress("owner", req.Owner)
	if err != nil {
		return nil, err
	}
	sender := owner
	if req.Sender != "" {
		if sender, err = requireAddress("sender", req.Sender); err != nil {
			return nil, err
		}
	}
	return &compass.CreateAccountRequest{
		Chain:       req.Chain,
		Owner:       owner,
		Sender:      sender,
		EstimateGas: true,
	}, nil
}
