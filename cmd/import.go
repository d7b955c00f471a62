package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/habitual/internal/codec"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var flagImportYes bool

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace all habits with the contents of a JSON export (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&flagImportYes, "yes", "y", false, "Replace existing habits without asking")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		payload []byte
		err     error
	)
	if args[0] == "-" {
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading import: %w", err)
	}

	// Validate before touching the current data.
	incoming, err := codec.Unmarshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if n := s.habits.Len(); n > 0 && !flagImportYes {
		replace := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Replace %d existing habits with %d imported?", n, len(incoming))).
			Affirmative("Replace").
			Negative("Cancel").
			Value(&replace).
			Run()
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !replace) {
			fmt.Println("  Import cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	s.habits.Replace(incoming)
	if err := s.overwrite(ctx); err != nil {
		return err
	}
	fmt.Printf("  Imported %d habits.\n", len(incoming))
	return nil
}
