package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Vigil/internal/briefing"
	"github.com/shaiso/Vigil/internal/config"
	"github.com/shaiso/Vigil/internal/vault"
)

// NewBriefingCmd создаёт группу команд рендеринга брифингов по запросу.
//
// Обычно брифинги пишет scheduler по расписанию; команда нужна для
// ручного прогона и отладки шаблонов.
func NewBriefingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Render a briefing on demand",
	}

	cmd.AddCommand(
		newBriefingRunCmd("daily", "Render the daily summary", briefing.RenderDaily, briefing.WriteDaily),
		newBriefingRunCmd("weekly", "Render the weekly CEO briefing", briefing.RenderWeekly, briefing.WriteWeekly),
	)

	return cmd
}

func newBriefingRunCmd(
	use, short string,
	render func(briefing.Stats, time.Time) string,
	write func(vault.Layout, time.Time) (string, error),
) *cobra.Command {
	var (
		vaultPath string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(false)

			cfg := config.Default()
			if vaultPath != "" {
				cfg.VaultPath = vaultPath
			}

			layout := vault.NewLayout(cfg.VaultPath)
			if err := layout.Ensure(); err != nil {
				return err
			}

			now := time.Now()
			if dryRun {
				// В dry-run содержимое уходит в stdout вместо vault.
				fmt.Fprint(cmd.OutOrStdout(), render(briefing.CollectStats(layout), now))
				return nil
			}

			path, err := write(layout, now)
			if err != nil {
				return err
			}
			out.Success("briefing written: " + path)
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultPath, "vault", "", "Vault root directory (default: $VAULT_PATH or ./vault)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the briefing to stdout instead of writing it")

	return cmd
}
