package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/habitual/internal/codec"

	"github.com/spf13/cobra"
)

var flagExportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all habits as JSON (stdout by default)",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	payload, err := codec.Marshal(s.habits.Snapshot())
	if err != nil {
		return err
	}

	if flagExportOutput == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(flagExportOutput, payload, 0o600); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Exported %d habits to %s\n", s.habits.Len(), flagExportOutput)
	}
	return nil
}
