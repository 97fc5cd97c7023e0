package handler

import (
	"net/http"

	"compass-earn/internal/errorx"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// parseError reports a request that failed httpx.Parse. Nothing upstream has been called yet.
func parseError(w http.ResponseWriter, r *http.Request, err error) {
	logx.WithContext(r.Context()).Errorf("failed to parse request: %v", err)
	writeError(w, r, errorx.BadRequest(err.Error()))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := errorx.Status(err)
	if code >= http.StatusInternalServerError {
		logx.WithContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	httpx.WriteJsonCtx(r.Context(), w, code, body)
}

func writeResult(w http.ResponseWriter, r *http.Request, resp any, err error) {
	if err != nil {
		writeError(w, r, err)
	} else {
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
