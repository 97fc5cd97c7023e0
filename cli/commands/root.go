// Package commands implements the compass script binary. Every command runs
// the same logic objects as the HTTP service, built from the same config file.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"compass-earn/internal/config"
	"compass-earn/internal/svc"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

const skipServiceContext = "skip-service-context"

var (
	configFile string
	chainName  string
	svcCtx     *svc.ServiceContext
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:])
}

// run executes one command line; the service context is closed on success and failure alike.
func run(ctx context.Context, args []string) error {
	defer closeServiceContext()

	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "compass",
		Short:         "Earn vault scripts: deposits, withdrawals, bundles and CCTP bridging",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipServiceContext] != "" {
				return nil
			}
			var c config.Config
			if err := conf.Load(configFile, &c, conf.UseEnv()); err != nil {
				return fmt.Errorf("load config %s: %w", configFile, err)
			}
			logx.MustSetup(c.Log)
			svcCtx = svc.NewServiceContext(c)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "f", "etc/compass.yaml", "the config file")
	root.PersistentFlags().StringVar(&chainName, "chain", "base", "chain name (ethereum, base, arbitrum)")

	root.AddCommand(
		depositCmd(),
		withdrawCmd(),
		createAccountCmd(),
		authorizeCmd(),
		bridgeCmd(),
		vaultsCmd(),
		positionsCmd(),
		keygenCmd(),
	)
	return root
}

func closeServiceContext() {
	if svcCtx != nil {
		svcCtx.Close()
		svcCtx = nil
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
