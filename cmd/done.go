package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/model"

	"github.com/spf13/cobra"
)

var flagMarkDate string

var doneCmd = &cobra.Command{
	Use:   "done HABIT",
	Short: "Mark a habit completed (today by default)",
	Example: `  habitual done 1
  habitual done "Drink water" --date yesterday`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMark(cmd, args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo HABIT",
	Short: "Clear a habit's completion (today by default)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMark(cmd, args[0], false)
	},
}

func init() {
	for _, c := range []*cobra.Command{doneCmd, undoCmd} {
		c.Flags().StringVarP(&flagMarkDate, "date", "d", "", "Date as YYYY-MM-DD, today or yesterday")
		rootCmd.AddCommand(c)
	}
}

func runMark(cmd *cobra.Command, ref string, completed bool) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	today := model.Today()

	date, err := parseDate(flagMarkDate, today)
	if err != nil {
		return err
	}

	if c := liveDaemon(ctx, cfg); c != nil {
		habits, err := c.Habits(ctx)
		if err != nil {
			return err
		}
		idx, _, err := resolveHabit(habits, ref)
		if err != nil {
			return err
		}
		h, err := c.SetCompletion(ctx, idx, date, completed)
		if err != nil {
			return err
		}
		printMarked(h, date, today, completed)
		return nil
	}

	s, err := openSessionWith(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	idx, _, err := resolveHabit(s.habits.Snapshot(), ref)
	if err != nil {
		return err
	}
	h, err := s.habits.Toggle(idx, date, completed, today)
	if err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	printMarked(h, date, today, completed)
	return nil
}

func printMarked(h model.Habit, date, today time.Time, completed bool) {
	verb := "Completed"
	if !completed {
		verb = "Cleared"
	}
	fmt.Printf("  %s %s for %s\n", verb, h.Name, cli.FormatDate(date))
	fmt.Println(cli.RenderHabitLine(h, model.DateKey(today)))
}
