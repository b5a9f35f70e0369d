package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/snapshot"

	"github.com/spf13/cobra"
)

// SnapshotCommandHandler encapsulates logic for handling whole-store operations via CLI.
type SnapshotCommandHandler struct{}

// ExportCmd writes the whole store as an export document
func (commandHandler *SnapshotCommandHandler) ExportCmd(cmd *cobra.Command, _ []string) {
	outputFilePath, err := cmd.Flags().GetString("output")
	if err != nil {
		fail(cmd, nil, fmt.Errorf("invalid output flag: %w", err))
		return
	}

	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	data, err := s.snapshots.Export(cmd.Context())
	if err != nil {
		fail(cmd, s.logger, err)
		return
	}

	if err := os.WriteFile(filepath.Clean(outputFilePath), data, 0600); err != nil {
		fail(cmd, s.logger, fmt.Errorf("failed to write export: %w", err))
		return
	}
	s.logger.Info("Export saved to ", outputFilePath)
	cmd.Printf("Exported to %s\n", outputFilePath)
}

// ImportCmd restores an export document, optionally clearing the store first
func (commandHandler *SnapshotCommandHandler) ImportCmd(cmd *cobra.Command, _ []string) {
	inputFilePath, err := cmd.Flags().GetString("input")
	if err != nil {
		fail(cmd, nil, fmt.Errorf("invalid input flag: %w", err))
		return
	}
	clearFirst, err := cmd.Flags().GetBool("clear")
	if err != nil {
		fail(cmd, nil, fmt.Errorf("invalid clear flag: %w", err))
		return
	}

	data, err := os.ReadFile(filepath.Clean(inputFilePath))
	if err != nil {
		fail(cmd, nil, fmt.Errorf("failed to read import: %w", err))
		return
	}

	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	if err := s.snapshots.Import(cmd.Context(), data, records.ImportOptions{ClearBeforeImport: clearFirst}); err != nil {
		fail(cmd, s.logger, err)
		return
	}
	cmd.Println(app.MsgImportSuccess)
}

// ResetCmd deletes the store and recreates it empty
func (commandHandler *SnapshotCommandHandler) ResetCmd(cmd *cobra.Command, _ []string) {
	confirmed, _ := cmd.Flags().GetBool("yes")
	if !confirmed {
		fail(cmd, nil, fmt.Errorf("reset deletes every record; pass --yes to confirm"))
		return
	}

	s, err := openSession(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}
	defer s.Close()

	if err := s.snapshots.Reset(cmd.Context()); err != nil {
		fail(cmd, s.logger, err)
		return
	}
	cmd.Println(app.MsgResetSuccess)
}

// InitSnapshotCommands registers the export, import and reset commands
func InitSnapshotCommands(rootCmd *cobra.Command) error {
	handler := &SnapshotCommandHandler{}

	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export the store to a file",
		Run:   handler.ExportCmd,
	}
	exportCmd.Flags().StringP("output", "o", snapshot.DefaultFileName, "Path of the export file")
	rootCmd.AddCommand(exportCmd)

	var importCmd = &cobra.Command{
		Use:   "import",
		Short: "Import an export file into the store",
		Run:   handler.ImportCmd,
	}
	importCmd.Flags().StringP("input", "i", snapshot.DefaultFileName, "Path of the export file")
	importCmd.Flags().BoolP("clear", "", false, "Clear both collections before importing")
	rootCmd.AddCommand(importCmd)

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Delete every record and recreate the store",
		Run:   handler.ResetCmd,
	}
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
	rootCmd.AddCommand(resetCmd)

	return nil
}
