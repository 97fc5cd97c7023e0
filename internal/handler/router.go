package handler

import (
	"net/http"
	"time"

	"compass-earn/internal/config"
	"compass-earn/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			// --- Vault Routes ---
			{
				Method:  http.MethodGet,
				Path:    "/vault/:address",
				Handler: VaultHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/morpho-vaults",
				Handler: MorphoVaultsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/vaults",
				Handler: VaultsHandler(serverCtx),
			},
			// --- Earn Routes ---
			{
				Method:  http.MethodPost,
				Path:    "/deposit/prepare",
				Handler: PrepareDepositHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/withdraw/prepare",
				Handler: PrepareWithdrawHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/positions",
				Handler: PositionsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/token/overview",
				Handler: TokenOverviewHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/earn-account/prepare",
				Handler: PrepareEarnAccountHandler(serverCtx),
			},
			// --- Bridge Routes ---
			{
				Method:  http.MethodGet,
				Path:    "/cctp/attestation",
				Handler: AttestationHandler(serverCtx),
			},
			// --- Transaction Routes ---
			{
				Method:  http.MethodGet,
				Path:    "/transactions/:hash",
				Handler: TransactionHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/transactions",
				Handler: TransactionListHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
		rest.WithTimeout(30000*time.Millisecond),
	)

	// --- Submission Routes: wait for the receipt before answering ---
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/sponsor/submit",
				Handler: SponsorSubmitHandler(serverCtx),
			},
		},
		rest.WithPrefix("/api"),
		rest.WithTimeout(submitTimeout(serverCtx.Config)),
	)
}

// submitTimeout covers preparing and broadcasting a transaction plus the full
// receipt poll, so a slow confirmation ends in a pending response carrying the
// hash rather than a cut connection.
func submitTimeout(c config.Config) time.Duration {
	pollTimeout := c.Poll.Timeout
	if pollTimeout <= 0 {
		pollTimeout = 3 * time.Minute
	}
	return pollTimeout + time.Minute
}
