// Vigil — оркестратор vault-автоматизации.
//
// Использование:
//
//	vigil <command> [flags]
//
// Команды:
//
//	orchestrate  Запуск демона-оркестратора
//	watch        Запуск одного watcher'а в foreground
//	audit        Чтение audit-лога
//	briefing     Рендеринг брифинга по запросу
//	schedule     Просмотр расписания триггеров
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Vigil/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "vigil",
		Short:         "Vigil — vault automation orchestrator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		cli.NewOrchestrateCmd(),
		cli.NewWatchCmd(),
		cli.NewAuditCmd(),
		cli.NewBriefingCmd(),
		cli.NewScheduleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
