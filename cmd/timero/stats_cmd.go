package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/timero/cmd/timero/models"
)

var statsHistory int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show focus statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return statsRun(ctx, a, statsHistory)
		})
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsHistory, "history", 0, "Also list the N most recent focus sessions")
	rootCmd.AddCommand(statsCmd)
}

func statsRun(ctx context.Context, a *app, historyLimit int) error {
	now := a.clock.Now()
	stats := a.stats.Stats()
	today := stats.Today(now)
	streak := stats.Streak()

	console.Info("Today: %d sessions, %s", today.Count, models.FormatMinutes(today.TotalMinutes))
	console.Info("Streak: %d days (best %d)", streak.Current, streak.Max)
	console.Info("Best hour: %s", models.FormatHour(stats.BestHour()))
	fmt.Fprintln(console.Out)

	table := console.Table([]string{"Period", "Sessions", "Focus", "Active days"})
	for _, row := range []struct {
		name   string
		period models.PeriodStats
	}{
		{"This week", stats.Week(now)},
		{"This month", stats.Month(now)},
		{"All time", stats.AllTime()},
	} {
		_ = table.Append([]string{
			row.name,
			strconv.Itoa(row.period.Sessions),
			models.FormatMinutes(row.period.Minutes),
			strconv.Itoa(row.period.DaysWithSessions),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	if historyLimit <= 0 {
		return nil
	}
	history, err := a.stats.History(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	fmt.Fprintln(console.Out)
	if len(history) == 0 {
		console.Info("No sessions recorded yet")
		return nil
	}
	table = console.Table([]string{"Completed", "Mode", "Minutes"})
	for _, s := range history {
		_ = table.Append([]string{
			s.CompletedAt.In(now.Location()).Format("2006-01-02 15:04"),
			s.Mode.String(),
			strconv.Itoa(s.Minutes),
		})
	}
	return table.Render()
}
