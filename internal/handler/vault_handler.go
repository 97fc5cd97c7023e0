package handler

import (
	"net/http"

	"compass-earn/internal/logic"
	"compass-earn/internal/svc"
	"compass-earn/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func VaultHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.VaultReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewVaultLogic(r.Context(), svcCtx)
		resp, err := l.Vault(&req)
		writeResult(w, r, resp, err)
	}
}

func VaultsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.VaultListReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewVaultLogic(r.Context(), svcCtx)
		resp, err := l.Vaults(&req)
		writeResult(w, r, resp, err)
	}
}

// MorphoVaultsHandler 列表结果在进程内缓存
func MorphoVaultsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.VaultListReq
		if err := httpx.Parse(r, &req); err != nil {
			parseError(w, r, err)
			return
		}

		l := logic.NewVaultLogic(r.Context(), svcCtx)
		resp, err := l.MorphoVaults(&req)
		writeResult(w, r, resp, err)
	}
}
