package handler

import (
	"net/http"

	"compass-earn/internal/logic"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// PrepareDepositHandler returns the unsigned payload for a deposit; it never signs.
func PrepareDepositHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logx.WithContext(r.Context()).Infof("PrepareDepositHandler")
		var req types.PrepareManageReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewManageLogic(r.Context(), svcCtx)
		resp, err := l.PrepareDeposit(&req)
		writeResult(w, r, resp, err)
	}
}

func PrepareWithdrawHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logx.WithContext(r.Context()).Infof("PrepareWithdrawHandler")
		var req types.PrepareManageReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewManageLogic(r.Context(), svcCtx)
		resp, err := l.PrepareWithdraw(&req)
		writeResult(w, r, resp, err)
	}
}

func PositionsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PositionsReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewPositionsLogic(r.Context(), svcCtx)
		resp, err := l.Positions(&req)
		writeResult(w, r, resp, err)
	}
}

func TokenOverviewHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TokenOverviewReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewTokenLogic(r.Context(), svcCtx)
		resp, err := l.Overview(&req)
		writeResult(w, r, resp, err)
	}
}

func PrepareEarnAccountHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logx.WithContext(r.Context()).Infof("PrepareEarnAccountHandler")
		var req types.PrepareEarnAccountReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewEarnAccountLogic(r.Context(), svcCtx)
		resp, err := l.PrepareCreate(&req)
		writeResult(w, r, resp, err)
	}
}

// SponsorSubmitHandler 接收 owner 的 EIP-712 签名，由 sponsor 代付提交
func SponsorSubmitHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logx.WithContext(r.Context()).Infof("SponsorSubmitHandler")
		var req types.SponsorSubmitReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewSponsorLogic(r.Context(), svcCtx)
		resp, err := l.Submit(&req)
		writeResult(w, r, resp, err)
	}
}
