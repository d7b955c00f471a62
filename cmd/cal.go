package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/habitual/internal/calendar"
	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagCalMonth string
	flagCalDate  string
)

var calCmd = &cobra.Command{
	Use:     "cal",
	Aliases: []string{"calendar"},
	Short:   "Show a month calendar of completed days",
	Example: `  habitual cal
  habitual cal --month 2026-09
  habitual cal --date 2026-10-03`,
	Args: cobra.NoArgs,
	RunE: runCal,
}

func init() {
	calCmd.Flags().StringVarP(&flagCalMonth, "month", "m", "", "Month as YYYY-MM (default: month of --date)")
	calCmd.Flags().StringVarP(&flagCalDate, "date", "d", "", "Selected date; its completions are listed below the grid")
	rootCmd.AddCommand(calCmd)
}

func runCal(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	selected, err := parseDate(flagCalDate, s.today)
	if err != nil {
		return err
	}

	month := calendar.MonthOf(selected)
	if flagCalMonth != "" {
		if month, err = calendar.ParseMonth(flagCalMonth); err != nil {
			return err
		}
	}

	// Only highlight a selection that falls inside the shown month.
	highlight := selected
	if !month.Contains(selected) {
		highlight = time.Time{}
	}

	cells := month.Grid(s.today, highlight, s.habits.HasAnyCompletionOn)
	active := 0
	for _, c := range cells {
		if c.HasCompletion {
			active++
		}
	}

	fmt.Println()
	fmt.Print(cli.RenderMonth(month, cells))
	fmt.Printf("  %s\n\n", cli.RenderMuted(fmt.Sprintf("%s of %d with a completion",
		cli.Plural(active, "day"), calendar.DaysIn(month.Year, month.Month))))

	if !highlight.IsZero() {
		fmt.Print(cli.RenderDay(pipeline.CompletedOn(s.habits.Snapshot(), selected)))
		fmt.Println()
	}
	return nil
}
