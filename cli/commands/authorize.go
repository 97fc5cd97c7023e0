package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"compass-earn/internal/compass"
	"compass-earn/internal/logic"

	"github.com/spf13/cobra"
)

// authorize --actions bundle.json: delegate via EIP-7702 and execute a bundle.
func authorizeCmd() *cobra.Command {
	var actionsFile string
	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Sign an EIP-7702 authorization and execute a bundle of actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(actionsFile)
			if err != nil {
				return err
			}
			var actions []compass.BundlerAction
			if err := json.Unmarshal(raw, &actions); err != nil {
				return fmt.Errorf("parse %s: %w", actionsFile, err)
			}
			if len(actions) == 0 {
				return fmt.Errorf("%s contains no actions", actionsFile)
			}

			resp, err := logic.NewBundlerLogic(cmd.Context(), svcCtx).Authorize(chainName, actions)
			if resp != nil {
				_ = printJSON(resp)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&actionsFile, "actions", "", "JSON file with an array of {action_type, body}")
	_ = cmd.MarkFlagRequired("actions")
	return cmd
}
