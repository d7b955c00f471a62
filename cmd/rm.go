package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/habitual/internal/model"
	"github.com/theirongolddev/habitual/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagRmYes bool

var rmCmd = &cobra.Command{
	Use:     "rm HABIT",
	Aliases: []string{"delete"},
	Short:   "Delete a habit by number or name",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&flagRmYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(rmCmd)
}

// confirmDelete asks before removing name unless --yes was given.
func confirmDelete(name string) (bool, error) {
	if flagRmYes {
		return true, nil
	}
	confirmed := false
	if err := tui.NewDeleteConfirm(name, &confirmed).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	if c := liveDaemon(ctx, cfg); c != nil {
		habits, err := c.Habits(ctx)
		if err != nil {
			return err
		}
		idx, h, err := resolveHabit(habits, args[0])
		if err != nil {
			return err
		}
		ok, err := confirmDelete(h.Name)
		if err != nil || !ok {
			printKept(h.Name, err)
			return err
		}

		// Another client may have changed the list during the prompt.
		current, err := c.Habits(ctx)
		if err != nil {
			return err
		}
		if err := checkStillAt(current, idx, h); err != nil {
			return err
		}
		if err := c.Delete(ctx, idx); err != nil {
			return err
		}
		fmt.Printf("  Deleted %s.\n", h.Name)
		return nil
	}

	s, err := openSessionWith(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	idx, h, err := resolveHabit(s.habits.Snapshot(), args[0])
	if err != nil {
		return err
	}
	ok, err := confirmDelete(h.Name)
	if err != nil || !ok {
		printKept(h.Name, err)
		return err
	}

	if err := s.habits.Delete(idx); err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	fmt.Printf("  Deleted %s.\n", h.Name)
	return nil
}

// checkStillAt fails unless habits[idx] is still the habit the user confirmed.
func checkStillAt(habits []model.Habit, idx int, want model.Habit) error {
	if idx < len(habits) && habits[idx].Name == want.Name && habits[idx].Category == want.Category {
		return nil
	}
	return fmt.Errorf("habits changed while confirming; %q is no longer #%d, nothing deleted", want.Name, idx+1)
}

func printKept(name string, err error) {
	if err == nil {
		fmt.Printf("  Kept %s.\n", name)
	}
}
