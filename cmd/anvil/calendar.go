package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aellingwood/anvil/internal/daydata"
	"github.com/aellingwood/anvil/internal/ui"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a month as an HTML calendar table",
	Long: "Print the calendar grid for a month. Year and month default to the current\n" +
		"date. Day contents come from the configured data file and iCalendar feed.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		year, _ := cmd.Flags().GetInt("year")
		month, _ := cmd.Flags().GetInt("month")
		noHighlight, _ := cmd.Flags().GetBool("no-highlight")

		overrides := map[string]any{}
		if cmd.Flags().Changed("days") {
			overrides["dayValues"], _ = cmd.Flags().GetString("days")
		}
		if cmd.Flags().Changed("ics") {
			overrides["icsFile"], _ = cmd.Flags().GetString("ics")
		}
		if cmd.Flags().Changed("markdown") {
			overrides["markdown"], _ = cmd.Flags().GetBool("markdown")
		}
		if noHighlight {
			overrides["highlightToday"] = false
		}
		cfg.WithOverrides(overrides)

		store := daydata.NewStore(cfg.Calendar)
		if err := store.Reload(); err != nil {
			return err
		}

		cal := ui.NewCalendar(year, month)
		cal.SetDayValues(store.Values(cal.Year(), cal.Month()))

		fmt.Fprintln(cmd.OutOrStdout(), cal.Render(cfg.Calendar.HighlightToday))
		return nil
	},
}

func init() {
	calendarCmd.Flags().Int("year", 0, "year to show (default current year)")
	calendarCmd.Flags().Int("month", 0, "month to show, 1-12 (default current month)")
	calendarCmd.Flags().Bool("no-highlight", false, "do not mark today's cell")
	calendarCmd.Flags().String("days", "", "day values file (YAML, TOML or JSON)")
	calendarCmd.Flags().String("ics", "", "iCalendar file with events to show")
	calendarCmd.Flags().Bool("markdown", false, "render day values as inline markdown")

	rootCmd.AddCommand(calendarCmd)
}
