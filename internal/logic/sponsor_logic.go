package logic

import (
	"context"
	"encoding/json"
	"net/http"

	"compass-earn/internal/compass"
	"compass-earn/internal/constant"
	"compass-earn/internal/errorx"
	"compass-earn/internal/pipeline"
	"compass-earn/internal/signer"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zeromicro/go-zero/core/logx"
)

// SponsorLogic 代付 gas: owner 只签 EIP-712，sponsor 签名并支付交易
type SponsorLogic struct {
	ctx    context.Context
	svcCtx *svc.ServiceContext
	logx.Logger
}

func NewSponsorLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SponsorLogic {
	return &SponsorLogic{
		ctx:    ctx,
		svcCtx: svcCtx,
		Logger: logx.WithContext(ctx),
	}
}

// Submit checks that the signature belongs to the owner before anything is
// sent upstream, then runs the sponsor's half of the flow.
func (l *SponsorLogic) Submit(req *types.SponsorSubmitReq) (*types.SubmitResp, error) {
	if err := requireChain(req.Chain); err != nil {
		return nil, err
	}
	ownerHex, err := requireAddress("owner", req.Owner)
	if err != nil {
		return nil, err
	}
	owner := common.HexToAddress(ownerHex)

	var td compass.TypedData
	if err := json.Unmarshal([]byte(req.TypedData), &td); err != nil {
		return nil, errorx.BadRequest("typedData must be a JSON encoded EIP-712 payload")
	}
	if err := td.Validate(); err != nil {
		return nil, errorx.BadRequest(err.Error())
	}

	signedBy, err := signer.RecoverTypedData(td.TypedData, req.Signature)
	if err != nil {
		return nil, errorx.BadRequest("invalid signature")
	}
	if signedBy != owner {
		l.Errorf("签名地址 %s 与 owner %s 不一致", signedBy.Hex(), owner.Hex())
		return nil, errorx.BadRequest("signature was not produced by owner")
	}

	if l.svcCtx.Sponsor == nil {
		return nil, errorx.New(http.StatusServiceUnavailable, "gas sponsorship is not configured")
	}
	submitter, closeFn, err := l.svcCtx.Submitter(l.ctx, req.Chain, l.svcCtx.Sponsor)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	flow := &pipeline.Sponsored{Sponsor: l.svcCtx.Compass, Submitter: submitter}
	meta := pipeline.Meta{Chain: req.Chain, Action: constant.Action(req.Action), Owner: owner.Hex()}
	res, err := flow.Submit(l.ctx, meta, owner, &td, req.Signature)
	return buildSubmitResp(l.Logger, l.svcCtx, req.Chain, req.Action, res, err)
}
