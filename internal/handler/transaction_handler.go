package handler

import (
	"net/http"

	"compass-earn/internal/logic"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// AttestationHandler 查询一次 CCTP attestation 状态，不等待
func AttestationHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AttestationReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewBridgeLogic(r.Context(), svcCtx)
		resp, err := l.AttestationStatus(&req)
		writeResult(w, r, resp, err)
	}
}

func TransactionHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TransactionReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewSubmissionLogic(r.Context(), svcCtx)
		resp, err := l.Get(&req)
		writeResult(w, r, resp, err)
	}
}

func TransactionListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TransactionListReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewSubmissionLogic(r.Context(), svcCtx)
		resp, err := l.ListByOwner(&req)
		writeResult(w, r, resp, err)
	}
}
