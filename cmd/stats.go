package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/pipeline"
	"github.com/theirongolddev/habitual/internal/store"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summary of today's progress, categories and streaks",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	habits := s.habits.Snapshot()
	if len(habits) == 0 {
		fmt.Println("\n  No habits yet.")
		return nil
	}
	stats := pipeline.Summarize(habits, s.today)

	fmt.Println()
	fmt.Println(cli.RenderTitle("STATS  " + cli.FormatDate(s.today)))
	fmt.Println()
	fmt.Printf("  Habits:          %d\n", stats.TotalHabits)
	fmt.Printf("  Completed today: %s\n", cli.RenderProgressBar(stats.CompletedToday, stats.TotalHabits, 20))
	fmt.Println()

	groups := pipeline.GroupByCategory(habits, s.today)
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Category, strconv.Itoa(g.Habits), cli.FormatProgress(g.Done, g.Habits)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By Category",
		Headers: []string{"Category", "Habits", "Done Today"},
		Rows:    rows,
	}))
	fmt.Println()

	// Longest current streaks first; ties keep collection order.
	byStreak := make([]int, len(habits))
	for i := range byStreak {
		byStreak[i] = i
	}
	sort.SliceStable(byStreak, func(a, b int) bool {
		return habits[byStreak[a]].Streak > habits[byStreak[b]].Streak
	})

	streakRows := make([][]string, 0, 5)
	for _, i := range byStreak {
		if len(streakRows) == 5 || habits[i].Streak == 0 {
			break
		}
		streakRows = append(streakRows, []string{habits[i].Name, cli.FormatStreak(habits[i].Streak)})
	}
	if len(streakRows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Top Streaks",
			Headers: []string{"Habit", "Streak"},
			Rows:    streakRows,
		}))
		fmt.Println()
	}

	if db, ok := s.backend.(*store.SQLiteBackend); ok {
		snaps, err := db.History(ctx)
		if err != nil {
			return err
		}
		if len(snaps) > 0 {
			fmt.Printf("  Snapshots kept: %d (latest %s, %s)\n\n",
				len(snaps),
				snaps[0].SavedAt.Local().Format(time.DateTime),
				cli.Plural(snaps[0].HabitCount, "habit"))
		}
	}
	return nil
}
