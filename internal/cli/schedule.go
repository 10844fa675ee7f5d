package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Vigil/internal/config"
	"github.com/shaiso/Vigil/internal/scheduler"
)

// NewScheduleCmd создаёт группу команд для просмотра расписания.
func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect trigger schedule",
	}

	cmd.AddCommand(newScheduleNextCmd())

	return cmd
}

func newScheduleNextCmd() *cobra.Command {
	var (
		dailyHour int
		weeklyDay int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next trigger instants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(jsonOut)

			daily, weekly, err := scheduler.NextRuns(dailyHour, weeklyDay, time.Now())
			if err != nil {
				return err
			}

			headers := []string{"TRIGGER", "NEXT"}
			rows := [][]string{
				{scheduler.TriggerDaily, daily.Format(time.RFC3339)},
				{scheduler.TriggerWeekly, weekly.Format(time.RFC3339)},
			}

			out.Print(headers, rows, map[string]string{
				scheduler.TriggerDaily:  daily.Format(time.RFC3339),
				scheduler.TriggerWeekly: weekly.Format(time.RFC3339),
			})
			return nil
		},
	}

	cmd.Flags().IntVar(&dailyHour, "daily-hour", config.DefaultDailyHour, "Hour of day (0-23) for the daily trigger")
	cmd.Flags().IntVar(&weeklyDay, "weekly-day", config.DefaultWeeklyDay, "Day of week (0=Mon .. 6=Sun) for the weekly trigger")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	return cmd
}
