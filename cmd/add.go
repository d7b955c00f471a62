package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/model"

	"github.com/spf13/cobra"
)

var flagAddCategory string

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a habit",
	Example: `  habitual add "Drink water" -c Health
  habitual add Read --category Mind`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Habit category (required)")
	_ = addCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	name := strings.Join(args, " ")

	if c := liveDaemon(ctx, cfg); c != nil {
		idx, h, err := c.Add(ctx, name, flagAddCategory)
		if err != nil {
			return err
		}
		printAdded(idx, h)
		return nil
	}

	s, err := openSessionWith(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	h, err := s.habits.Add(name, flagAddCategory)
	if err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	printAdded(s.habits.Len()-1, h)
	return nil
}

func printAdded(index int, h model.Habit) {
	fmt.Printf("  Added #%d\n", index+1)
	fmt.Println(cli.RenderHabitLine(h, model.DateKey(model.Today())))
}
