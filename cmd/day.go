package cmd

import (
	"fmt"

	"github.com/theirongolddev/habitual/internal/cli"
	"github.com/theirongolddev/habitual/internal/pipeline"

	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day [DATE]",
	Short: "List habits completed on a date (today by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDay,
}

func init() {
	rootCmd.AddCommand(dayCmd)
}

func runDay(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}
	date, err := parseDate(ref, s.today)
	if err != nil {
		return err
	}

	habits := s.habits.Snapshot()
	detail := pipeline.CompletedOn(habits, date)

	fmt.Println()
	fmt.Print(cli.RenderDay(detail))
	fmt.Printf("\n  %s\n\n", cli.RenderProgressBar(len(detail.Completed), len(habits), 20))
	return nil
}
