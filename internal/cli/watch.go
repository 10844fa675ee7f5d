package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/config"
	"github.com/shaiso/Vigil/internal/telemetry"
	"github.com/shaiso/Vigil/internal/vault"
	"github.com/shaiso/Vigil/internal/watcher"
)

// NewWatchCmd создаёт команду запуска одного watcher'а в foreground.
//
// Именно эту команду запускают дескрипторы по умолчанию как дочерние
// процессы оркестратора; она же пригодна для ручного запуска.
func NewWatchCmd() *cobra.Command {
	var (
		vaultPath string
		dryRun    bool
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:       "watch orders|approvals",
		Short:     "Run a single watcher in the foreground",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"orders", "approvals"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.SetupLogger()

			cfg := config.Default()
			if vaultPath != "" {
				cfg.VaultPath = vaultPath
			}
			cfg.DryRun = dryRun
			if cmd.Flags().Changed("interval") {
				cfg.WatchInterval = interval
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			layout := vault.NewLayout(cfg.VaultPath)
			if err := layout.Ensure(); err != nil {
				return err
			}

			auditLog := audit.New(audit.Config{Layout: layout, Logger: logger})

			var src watcher.Source
			switch args[0] {
			case "orders":
				s, err := watcher.NewOrdersSource(watcher.OrdersConfig{
					Layout: layout,
					DryRun: cfg.DryRun,
					Logger: logger,
				})
				if err != nil {
					return err
				}
				src = s
			case "approvals":
				s, err := watcher.NewApprovalsSource(watcher.ApprovalsConfig{
					Layout:          layout,
					EmailHandler:    cfg.EmailHandler,
					LinkedInHandler: cfg.LinkedInHandler,
					HandlerTimeout:  cfg.HandlerTimeout,
					DryRun:          cfg.DryRun,
					Logger:          logger,
				})
				if err != nil {
					return err
				}
				src = s
			default:
				return fmt.Errorf("%w: %s", watcher.ErrUnknownSource, args[0])
			}
			if closer, ok := src.(io.Closer); ok {
				defer closer.Close()
			}

			runner := watcher.NewRunner(watcher.RunnerConfig{
				Source:   src,
				Interval: cfg.WatchInterval,
				AuditLog: auditLog,
				Logger:   logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultPath, "vault", "", "Vault root directory (default: $VAULT_PATH or ./vault)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intentions without writing files or launching handlers")
	cmd.Flags().DurationVar(&interval, "interval", config.DefaultWatchInterval, "Source poll interval")

	return cmd
}
