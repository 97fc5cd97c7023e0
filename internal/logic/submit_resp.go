package logic

import (
	"errors"
	"net/http"

	"compass-earn/internal/chain"
	"compass-earn/internal/constant"
	"compass-earn/internal/errorx"
	"compass-earn/internal/pipeline"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

// buildSubmitResp renders a pipeline result the way the API and CLI report it.
// Once a transaction has been broadcast its hash is always returned, also when
// confirmation failed; the error then carries the same response as details.
func buildSubmitResp(logger logx.Logger, svcCtx *svc.ServiceContext, chainName, label string, res *pipeline.Result, err error) (*types.SubmitResp, error) {
	if err != nil && res == nil {
		logger.Errorf("%s 失败: %v", label, err)
		return nil, err
	}

	resp := &types.SubmitResp{
		TxHash: res.Hash.Hex(),
		Chain:  chainName,
		Events: res.Events,
	}
	if res.Receipt != nil && res.Receipt.BlockNumber != nil {
		resp.BlockNumber = res.Receipt.BlockNumber.Uint64()
	}
	if chainConf, err := svcCtx.Config.Chain(chainName); err == nil {
		resp.ExplorerUrl = chainConf.ExplorerTxUrl(resp.TxHash)
	}

	if err != nil {
		logger.Errorf("%s 交易失败 %s: %v", label, resp.TxHash, err)
		code := http.StatusGatewayTimeout
		resp.Status = constant.StatusPending
		resp.Message = label + " submitted, confirmation pending"
		if errors.Is(err, chain.ErrReverted) {
			code = http.StatusUnprocessableEntity
			resp.Status = constant.StatusFailed
			resp.Message = label + " reverted"
		}
		return resp, errorx.Wrap(code, resp.Message, resp, err)
	}

	resp.Status = constant.StatusConfirmed
	resp.Message = label + " confirmed"
	logger.Infof("✅ %s 完成: %s", label, resp.TxHash)
	return resp, nil
}
