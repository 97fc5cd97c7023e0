package commands

import (
	"fmt"

	"compass-earn/internal/format"
	"compass-earn/internal/logic"
	"compass-earn/internal/signer"
	"compass-earn/internal/types"

	"github.com/spf13/cobra"
)

func vaultsCmd() *cobra.Command {
	var (
		req    types.VaultListReq
		morpho bool
	)
	cmd := &cobra.Command{
		Use:   "vaults",
		Short: "List vaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Chain = chainName
			l := logic.NewVaultLogic(cmd.Context(), svcCtx)
			var (
				resp any
				err  error
			)
			if morpho {
				resp, err = l.MorphoVaults(&req)
			} else {
				resp, err = l.Vaults(&req)
			}
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().StringVar(&req.OrderBy, "order-by", "", "sort key, e.g. tvl_usd")
	cmd.Flags().StringVar(&req.Direction, "direction", "desc", "asc or desc")
	cmd.Flags().IntVar(&req.Limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&req.Offset, "offset", 0, "page offset")
	cmd.Flags().StringVar(&req.Asset, "asset", "", "filter by asset symbol")
	cmd.Flags().BoolVar(&morpho, "morpho", false, "list Morpho vaults")
	return cmd
}

func positionsCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Show earn positions of an owner (default: the configured key)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner == "" {
				if svcCtx.Signer == nil {
					return fmt.Errorf("--owner required when no signer key is configured")
				}
				owner = svcCtx.Signer.Address().Hex()
			}
			resp, err := logic.NewPositionsLogic(cmd.Context(), svcCtx).Positions(&types.PositionsReq{
				Owner: owner,
				Chain: chainName,
			})
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner address")
	return cmd
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "keygen",
		Short:       "Generate a new secp256k1 key for PRIVATE_KEY or SPONSOR_PRIVATE_KEY",
		Annotations: map[string]string{skipServiceContext: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := signer.Generate()
			if err != nil {
				return err
			}
			address := s.Address().Hex()
			fmt.Printf("Address:     %s\n", address)
			fmt.Printf("Private key: %s\n", s.PrivateKeyHex())
			fmt.Printf("Gradient:    %s\n", format.WalletGradient(address))
			return nil
		},
	}
}
