package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/config"
	"github.com/shaiso/Vigil/internal/telemetry"
	"github.com/shaiso/Vigil/internal/vault"
)

// NewAuditCmd создаёт группу команд для чтения audit-лога.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log",
	}

	cmd.AddCommand(newAuditTodayCmd())

	return cmd
}

func newAuditTodayCmd() *cobra.Command {
	var (
		vaultPath string
		date      string
		limit     int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show a day partition of the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(jsonOut)

			cfg := config.Default()
			if vaultPath != "" {
				cfg.VaultPath = vaultPath
			}

			day := time.Now()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("parse --date: %w", err)
				}
				day = parsed
			}

			layout := vault.NewLayout(cfg.VaultPath)
			log := audit.New(audit.Config{Layout: layout, Logger: telemetry.SetupLogger()})

			entries := log.Read(day)
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			if entries == nil {
				// Пустая партиция — [] в JSON-режиме, не null.
				entries = []audit.Entry{}
			}

			headers := []string{"TIME", "ACTOR", "ACTION", "TARGET", "RESULT"}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.Timestamp, e.Actor, e.ActionType, e.Target, string(e.Result)}
			}

			out.Print(headers, rows, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultPath, "vault", "", "Vault root directory (default: $VAULT_PATH or ./vault)")
	cmd.Flags().StringVar(&date, "date", "", "Day partition to read, YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the last N entries")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	return cmd
}
