package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/changefeed"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/fakedata"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/snapshot"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// Global flag names
const (
	flagConfig   = "config"
	flagFormat   = "format"
	flagLogLevel = "log-level"
)

// InitGlobalFlags registers the flags shared by every command
func InitGlobalFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringP(flagConfig, "", "", "Path to the YAML config file (default $CONFIG_PATH)")
	rootCmd.PersistentFlags().StringP(flagFormat, "", formatText, "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringP(flagLogLevel, "", config.LogLevelError, "Log level: debug, info, warning or error")
}

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// commandLogger sets up a console logger at the --log-level of cmd
func commandLogger(cmd *cobra.Command) (logger.Logger, error) {
	settings := config.DefaultLoggerSettings()
	if level, err := cmd.Flags().GetString(flagLogLevel); err == nil && level != "" {
		settings.LogLevel = level
	}
	return setupLogger(&settings)
}

// loadConfig reads the configuration named by --config or CONFIG_PATH and sets up
// the logger from it; --log-level overrides the configured level
func loadConfig(cmd *cobra.Command) (*config.AppConfig, logger.Logger, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid config flag: %w", err)
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.Initialize(path)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed(flagLogLevel) || cfg.Logger.LogType == config.LogTypeConsole {
		cfg.Logger.LogLevel, _ = cmd.Flags().GetString(flagLogLevel)
	}

	log, err := setupLogger(&cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// session is an open store with the services of one command run
type session struct {
	cfg           *config.AppConfig
	logger        logger.Logger
	shell         *app.Shell
	notifications *app.NotificationLog
	companies     records.CompanyService
	users         records.UserService
	snapshots     records.SnapshotService
}

// openSession loads the configuration and opens the store behind a shell
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	codec, err := snapshot.NewDexieCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot codec: %w", err)
	}

	shell := app.NewShell(app.NewStoreOpener(cfg, codec, log), changefeed.NewBus(log), log)
	if err := shell.Open(cmd.Context()); err != nil {
		_ = shell.Close()
		return nil, err
	}

	notifications := app.NewNotificationLog(20, app.NewLogNotifier(log))
	generator := fakedata.NewGenerator(time.Now().UnixNano())

	s := &session{cfg: cfg, logger: log, shell: shell, notifications: notifications}
	if s.companies, err = app.NewCompanyService(shell, generator, notifications, log); err != nil {
		_ = shell.Close()
		return nil, err
	}
	if s.users, err = app.NewUserService(shell, generator, notifications, log); err != nil {
		_ = shell.Close()
		return nil, err
	}
	if s.snapshots, err = app.NewSnapshotService(shell, shell, notifications, log); err != nil {
		_ = shell.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.shell.Close(); err != nil {
		s.logger.Error("Failed to close store: ", err)
	}
}

// bridgeRemoteChanges republishes the changes streamed from url on the local feed
// until ctx is done, so views also follow writes made by other processes
func bridgeRemoteChanges(ctx context.Context, url string, feed records.ChangeFeed, log logger.Logger) {
	err := changefeed.Watch(ctx, url, func(event records.ChangeEvent) error {
		feed.Publish(event.Changes...)
		return nil
	})
	if err != nil {
		log.Warn("Not following remote changes from ", url, ": ", err)
	}
}

// fail reports a command failure on stderr and through the logger
func fail(cmd *cobra.Command, log logger.Logger, err error) {
	if log != nil {
		log.Error(err)
	}
	cmd.PrintErrln("Error:", err)
}
