package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/habitual/internal/config"
	"github.com/theirongolddev/habitual/internal/tui"
	"github.com/theirongolddev/habitual/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	vals.Apply(&cfg)
	theme.SetActive(cfg.Appearance.Theme)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `habitual setup` anytime to reconfigure.")
	return nil
}
