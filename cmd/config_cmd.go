// Package cmd implements the habitual CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/habitual/internal/config"
	"github.com/theirongolddev/habitual/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	kind, path, err := backendTarget(cfg)
	if err != nil {
		return err
	}

	fmt.Println("  [General]")
	fmt.Printf("    Backend:   %s\n", kind)
	fmt.Printf("    Data path: %s\n", path)
	fmt.Printf("    Autosave:  %v\n", cfg.General.Autosave)
	if kind == store.KindSQLite {
		fmt.Printf("    History:   %d snapshots\n", cfg.General.History)
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    Watch file:    %v\n", cfg.Daemon.Watch)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Println()

	fmt.Println("  Run `habitual setup` to reconfigure.")
	return nil
}
