// Package main is the entry point for the record-vault-cli application.
// It initializes the root command, registers the record, snapshot, key and
// system command groups, then executes the command-line interface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	commands "github.com/MGTheTrain/record-vault/cmd/record-vault-cli/internal/commands"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "record-vault-cli",
		Short: "Encrypted record store CLI tool",
		Long: `record-vault-cli manages a local encrypted store of companies and users.
Records can be listed, generated and removed, the whole store can be exported,
imported and reset, and storage usage, QR codes and live changes can be inspected.

The store is configured through --config (or CONFIG_PATH) and RV_ environment
variables, e.g. RV_ENCRYPTION_KEY and RV_DATABASE_DSN. Use keygen to create a key.`,
	}
	commands.InitGlobalFlags(rootCmd)

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = logger.CloseLogger() }()

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitKeyCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize key commands: %w", err)
	}

	if err := commands.InitRecordCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize record commands: %w", err)
	}

	if err := commands.InitSnapshotCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize snapshot commands: %w", err)
	}

	if err := commands.InitSystemCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize system commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
