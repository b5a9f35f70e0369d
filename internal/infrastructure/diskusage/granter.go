package diskusage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/record-vault/internal/domain/storage"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"github.com/shirou/gopsutil/v3/disk"
)

// volatileFilesystems lose their content on reboot or under memory pressure
var volatileFilesystems = map[string]bool{
	"tmpfs":    true,
	"ramfs":    true,
	"devtmpfs": true,
}

type granter struct {
	settings config.DatabaseSettings
	logger   logger.Logger
}

// NewPersistenceGranter creates a storage.PersistenceGranter for the store described by settings.
// A store counts as persisted when its file lives outside the temp dir on a non-volatile filesystem.
func NewPersistenceGranter(settings config.DatabaseSettings, logger logger.Logger) storage.PersistenceGranter {
	return &granter{
		settings: settings,
		logger:   logger,
	}
}

func (g *granter) Persisted(ctx context.Context) (bool, error) {
	path, err := databaseFile(g.settings)
	if err != nil {
		return false, err
	}
	path = resolve(path)

	if within(path, resolve(filepath.Clean(os.TempDir()))) {
		return false, nil
	}

	partitions, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return false, fmt.Errorf("failed to list partitions: %w", err)
	}

	var mount disk.PartitionStat
	for _, p := range partitions {
		if within(path, p.Mountpoint) && len(p.Mountpoint) > len(mount.Mountpoint) {
			mount = p
		}
	}
	return !volatileFilesystems[mount.Fstype], nil
}

// Persist re-checks the guarantee; a file store cannot be upgraded in place
func (g *granter) Persist(ctx context.Context) (bool, error) {
	persisted, err := g.Persisted(ctx)
	if err != nil {
		return false, err
	}
	if !persisted {
		g.logger.Warn("Database ", g.settings.DSN, " lives on volatile storage")
	}
	return persisted, nil
}
