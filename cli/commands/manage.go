package commands

import (
	"compass-earn/internal/constant"
	"compass-earn/internal/logic"
	"compass-earn/internal/types"

	"github.com/spf13/cobra"
)

func depositCmd() *cobra.Command {
	return manageCmd("deposit", "Deposit into a vault with the configured key", constant.ActionDeposit)
}

func withdrawCmd() *cobra.Command {
	return manageCmd("withdraw", "Withdraw from a vault with the configured key", constant.ActionWithdraw)
}

func manageCmd(use, short string, action constant.Action) *cobra.Command {
	var (
		vault     string
		amount    string
		sponsored bool
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := logic.NewManageLogic(cmd.Context(), svcCtx)
			resp, err := l.Execute(action, &types.PrepareManageReq{
				VaultAddress:   vault,
				Amount:         amount,
				Chain:          chainName,
				GasSponsorship: sponsored,
			})
			if resp != nil {
				_ = printJSON(resp)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&vault, "vault", "", "vault address")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in token units, e.g. 1.5")
	cmd.Flags().BoolVar(&sponsored, "sponsored", false, "sign typed data and let the sponsor key pay gas")
	_ = cmd.MarkFlagRequired("vault")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func createAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-account",
		Short: "Deploy the earn account owned by the configured key",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := logic.NewEarnAccountLogic(cmd.Context(), svcCtx).Create(chainName)
			if resp != nil {
				_ = printJSON(resp)
			}
			return err
		},
	}
}
