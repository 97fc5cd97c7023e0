package logic

import (
	"context"
	"errors"
	"net/http"

	"compass-earn/internal/errorx"
	"compass-earn/internal/model"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

var errNoStore = errorx.New(http.StatusServiceUnavailable, "transaction history is not configured")

// SubmissionLogic 查询已记录的交易
type SubmissionLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewSubmissionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SubmissionLogic {
	return &SubmissionLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

func (l *SubmissionLogic) Get(req *types.TransactionReq) (*types.TransactionResp, error) {
	if l.svcCtx.SubmissionsDao == nil {
		return nil, errNoStore
	}
	hash, err := requireTxHash(req.Hash)
	if err != nil {
		return nil, err
	}

	row, err := l.svcCtx.SubmissionsDao.FindOneByHash(l.ctx, hash.Hex())
	if errors.Is(err, model.ErrNotFound) {
		return nil, errorx.NotFound("transaction not found")
	}
	if err != nil {
		l.Errorf("查询交易失败 %s: %v", hash.Hex(), err)
		return nil, err
	}
	return l.toResp(row), nil
}

func (l *SubmissionLogic) ListByOwner(req *types.TransactionListReq) (*types.TransactionListResp, error) {
	if l.svcCtx.SubmissionsDao == nil {
		return nil, errNoStore
	}
	owner, err := requireAddress("owner", req.Owner)
	if err != nil {
		return nil, err
	}

	rows, err := l.svcCtx.SubmissionsDao.FindByOwner(l.ctx, owner, req.Limit)
	if err != nil {
		l.Errorf("查询交易列表失败 %s: %v", owner, err)
		return nil, err
	}
	out := &types.TransactionListResp{Transactions: make([]types.TransactionResp, 0, len(rows))}
	for _, row := range rows {
		out.Transactions = append(out.Transactions, *l.toResp(row))
	}
	return out, nil
}

func (l *SubmissionLogic) toResp(row *model.Submissions) *types.TransactionResp {
	resp := &types.TransactionResp{
		TxHash:      row.TxHash,
		Chain:       row.Chain,
		Action:      row.Action,
		Owner:       row.Owner,
		From:        row.FromAddress,
		To:          row.ToAddress,
		Status:      row.Status,
		BlockNumber: row.BlockNumber,
		CreatedAt:   row.CreatedAt.Unix(),
	}
	if chainConf, err := l.svcCtx.Config.Chain(row.Chain); err == nil {
		resp.ExplorerUrl = chainConf.ExplorerTxUrl(row.TxHash)
	}
	return resp
}
