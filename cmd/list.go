package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagListCategory string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with today's status and streaks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Only show habits in this category")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	habits := s.habits.Snapshot()
	if len(habits) == 0 {
		fmt.Println()
		if s.fresh {
			fmt.Printf("  Nothing saved at %s yet.\n", s.path)
		}
		fmt.Println("  No habits yet. Add one with: habitual add \"Drink water\" -c Health")
		return nil
	}

	todayKey := model.DateKey(s.today)
	stats := pipeline.Summarize(habits, s.today)

	fmt.Println()
	fmt.Println(cli.RenderTitle("HABITS  " + cli.FormatDate(s.today)))
	fmt.Println()

	if flagListCategory == "" {
		fmt.Print(cli.RenderHabits(habits, todayKey))
	} else {
		matched := pipeline.FilterByCategory(habits, flagListCategory)
		if len(matched) == 0 {
			fmt.Printf("  No habits in category %q.\n", flagListCategory)
			return nil
		}
		rows := make([][]string, 0, len(matched))
		for _, h := range matched {
			mark := "·"
			if h.CompletedOn(todayKey) {
				mark = "✓"
			}
			rows = append(rows, []string{
				strconv.Itoa(h.Index + 1),
				mark,
				h.Name,
				h.Category,
				cli.FormatStreak(h.Streak),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"#", "Today", "Habit", "Category", "Streak"},
			Rows:    rows,
		}))
	}

	fmt.Println()
	fmt.Printf("  Today: %s\n\n", cli.RenderProgressBar(stats.CompletedToday, stats.TotalHabits, 20))
	return nil
}
