package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shaiso/Vigil/internal/config"
	"github.com/shaiso/Vigil/internal/orchestrator"
	"github.com/shaiso/Vigil/internal/scheduler"
	"github.com/shaiso/Vigil/internal/telemetry"
)

// NewOrchestrateCmd создаёт команду запуска демона-оркестратора.
//
// Код выхода: 0 при graceful shutdown по сигналу, ненулевой только
// при ошибке конфигурации на старте.
func NewOrchestrateCmd() *cobra.Command {
	var (
		vaultPath   string
		dryRun      bool
		noWatchers  bool
		interval    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "orchestrate",
		Short: "Run the orchestrator daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.SetupLogger()

			cfg := config.Default()
			if vaultPath != "" {
				cfg.VaultPath = vaultPath
			}
			cfg.DryRun = dryRun
			cfg.NoWatchers = noWatchers
			if cmd.Flags().Changed("interval") {
				cfg.TickInterval = interval
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}

			if !cfg.NoWatchers {
				watchers, err := defaultWatchers(cfg)
				if err != nil {
					return err
				}
				cfg.Watchers = watchers
			}

			orch, err := orchestrator.New(orchestrator.Config{
				Config: cfg,
				Logger: logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// HTTP mux: /healthz + /metrics
			mux := http.NewServeMux()
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			mux.Handle("/metrics", promhttp.Handler())

			go func() {
				logger.Info("listening", "addr", cfg.MetricsAddr)
				if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
					logger.Error("http server error", "error", err)
				}
			}()

			if daily, weekly, err := scheduler.NextRuns(cfg.DailyHour, cfg.WeeklyDay, time.Now()); err == nil {
				logger.Info("schedule computed",
					"next_daily", daily.Format(time.RFC3339),
					"next_weekly", weekly.Format(time.RFC3339),
				)
			}

			if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultPath, "vault", "", "Vault root directory (default: $VAULT_PATH or ./vault)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log intentions without launching processes or writing files")
	cmd.Flags().BoolVar(&noWatchers, "no-watchers", false, "Do not manage watcher processes")
	cmd.Flags().DurationVar(&interval, "interval", config.DefaultTickInterval, "Orchestrator loop interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address for /healthz and /metrics")

	return cmd
}

// defaultWatchers — дескрипторы watcher-процессов по умолчанию:
// дочерние процессы того же бинарника в режиме vigil watch.
func defaultWatchers(cfg config.Config) ([]config.WatcherDescriptor, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}

	command := func(source string) []string {
		args := []string{exe, "watch", source, "--vault", cfg.VaultPath}
		if cfg.DryRun {
			args = append(args, "--dry-run")
		}
		return args
	}

	return []config.WatcherDescriptor{
		{Name: "orders-watcher", Command: command("orders")},
		{Name: "approval-watcher", Command: command("approvals")},
	}, nil
}
