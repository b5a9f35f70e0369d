package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/domain/storage"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/camera"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/changefeed"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/diskusage"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/qrdecode"
	"github.com/MGTheTrain/record-vault/internal/pkg/buildinfo"

	"github.com/spf13/cobra"
)

// SystemCommandHandler encapsulates logic for storage, scanner, change stream and version commands.
type SystemCommandHandler struct{}

// StorageCmd prints the storage report; with --watch it reprints at that interval
func (commandHandler *SystemCommandHandler) StorageCmd(cmd *cobra.Command, _ []string) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}

	watch, err := cmd.Flags().GetDuration("watch")
	if err != nil {
		fail(cmd, log, fmt.Errorf("invalid watch flag: %w", err))
		return
	}

	settings := cfg.Storage
	if watch > 0 {
		settings.PollInterval = watch
	}
	monitor := app.NewStorageMonitor(
		diskusage.NewEstimator(cfg.Database, log),
		diskusage.NewPersistenceGranter(cfg.Database, log),
		settings, log)
	monitor.Start(cmd.Context())
	defer monitor.Stop()

	if err := renderStorage(cmd, monitor.Latest()); err != nil {
		fail(cmd, log, err)
		return
	}
	if watch <= 0 {
		return
	}

	ticker := time.NewTicker(watch)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := renderStorage(cmd, monitor.Latest()); err != nil {
				fail(cmd, log, err)
				return
			}
		case <-cmd.Context().Done():
			return
		}
	}
}

func renderStorage(cmd *cobra.Command, report storage.Report) error {
	return render(cmd, report, func(w io.Writer) error {
		if !report.Supported {
			_, err := fmt.Fprintf(w, "[%s] %s\n", report.Severity, report.Message)
			return err
		}
		for _, item := range report.Items {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", item.Name, item.Formatted); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "[%s] %s\n", report.Severity, report.Message)
		return err
	})
}

// ScanCmd reads frames from a directory until the first QR code and prints its payload
func (commandHandler *SystemCommandHandler) ScanCmd(cmd *cobra.Command, _ []string) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		fail(cmd, nil, err)
		return
	}

	settings := cfg.Scanner
	if dir, _ := cmd.Flags().GetString("frames-dir"); dir != "" {
		settings.FramesDir = dir
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		fail(cmd, log, fmt.Errorf("invalid timeout flag: %w", err))
		return
	}

	scanner := app.NewScanner(camera.NewDirectoryCamera(settings, log), qrdecode.NewDecoder(), log)
	if err := scanner.Detect(cmd.Context()); err != nil {
		fail(cmd, log, err)
		return
	}
	if err := scanner.Start(cmd.Context()); err != nil {
		fail(cmd, log, err)
		return
	}
	defer scanner.Stop()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if err := scanner.Wait(ctx); err != nil {
		fail(cmd, log, fmt.Errorf("scan did not finish: %w", err))
		return
	}

	status := scanner.Status()
	if status.Error != "" {
		fail(cmd, log, errors.New(status.Error))
		return
	}
	if status.Result == "" {
		fail(cmd, log, errors.New("no QR code found"))
		return
	}

	err = render(cmd, status, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, status.Result)
		return err
	})
	if err != nil {
		fail(cmd, log, err)
	}
}

// WatchCmd prints the change events streamed by a running REST server
func (commandHandler *SystemCommandHandler) WatchCmd(cmd *cobra.Command, _ []string) {
	log, err := commandLogger(cmd)
	if err != nil {
		cmd.PrintErrln("Error:", err)
		return
	}

	url, err := cmd.Flags().GetString("url")
	if err != nil {
		fail(cmd, log, fmt.Errorf("invalid url flag: %w", err))
		return
	}

	err = changefeed.Watch(cmd.Context(), url, func(event records.ChangeEvent) error {
		return render(cmd, event, func(w io.Writer) error {
			for _, change := range event.Changes {
				if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", event.Seq, change.Table, change.Operation, change.Key); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		fail(cmd, log, err)
	}
}

// versionInfo is the output of version
type versionInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// VersionCmd prints the version
func (commandHandler *SystemCommandHandler) VersionCmd(cmd *cobra.Command, _ []string) {
	info := versionInfo{Name: buildinfo.Name, Version: buildinfo.String()}
	err := render(cmd, info, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s %s\n", info.Name, info.Version)
		return err
	})
	if err != nil {
		cmd.PrintErrln("Error:", err)
	}
}

// InitSystemCommands registers the storage, scan, watch and version commands
func InitSystemCommands(rootCmd *cobra.Command) error {
	handler := &SystemCommandHandler{}

	var storageCmd = &cobra.Command{
		Use:   "storage",
		Short: "Show storage quota and usage",
		Run:   handler.StorageCmd,
	}
	storageCmd.Flags().DurationP("watch", "w", 0, "Reprint at this interval until interrupted")
	rootCmd.AddCommand(storageCmd)

	var scanCmd = &cobra.Command{
		Use:   "scan",
		Short: "Decode the first QR code found in a directory of frames",
		Run:   handler.ScanCmd,
	}
	scanCmd.Flags().StringP("frames-dir", "d", "", "Directory of frame images (default scanner.frames_dir)")
	scanCmd.Flags().DurationP("timeout", "t", time.Minute, "Give up after this long")
	rootCmd.AddCommand(scanCmd)

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Stream the changes of a running REST server",
		Run:   handler.WatchCmd,
	}
	watchCmd.Flags().StringP("url", "u", defaultChangesURL, "WebSocket URL of the change stream")
	rootCmd.AddCommand(watchCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run:   handler.VersionCmd,
	})

	return nil
}
