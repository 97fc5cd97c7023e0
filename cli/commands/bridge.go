package commands

import (
	"compass-earn/internal/logic"
	"compass-earn/internal/types"

	"github.com/spf13/cobra"
)

func bridgeCmd() *cobra.Command {
	var req types.BridgeReq
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Move USDC between chains with CCTP: burn, wait for attestation, mint",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := logic.NewBridgeLogic(cmd.Context(), svcCtx).Bridge(&req)
			if resp != nil {
				_ = printJSON(resp)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&req.FromChain, "from", "ethereum", "source chain")
	cmd.Flags().StringVar(&req.ToChain, "to", "base", "destination chain")
	cmd.Flags().StringVar(&req.Recipient, "recipient", "", "destination address (default: the signer)")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "USDC amount, e.g. 10.5")
	cmd.Flags().BoolVar(&req.DepositToEarnAccount, "deposit", false, "mint into the recipient's earn account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
