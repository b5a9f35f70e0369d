package diskusage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MGTheTrain/record-vault/internal/domain/storage"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"github.com/shirou/gopsutil/v3/disk"
)

// sqliteSuffixes are the files SQLite keeps next to a database in WAL mode
var sqliteSuffixes = []string{"", "-wal", "-shm"}

type estimator struct {
	settings config.DatabaseSettings
	logger   logger.Logger
}

// NewEstimator creates a storage.Estimator for the store described by settings.
// Quota and usage refer to the volume holding the database file.
func NewEstimator(settings config.DatabaseSettings, logger logger.Logger) storage.Estimator {
	return &estimator{
		settings: settings,
		logger:   logger,
	}
}

func (e *estimator) Estimate(ctx context.Context) (*storage.Estimate, error) {
	path, err := databaseFile(e.settings)
	if err != nil {
		return nil, err
	}

	usage, err := disk.UsageWithContext(ctx, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage: %w", err)
	}

	var dbUsage uint64
	for _, suffix := range sqliteSuffixes {
		info, err := os.Stat(path + suffix)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path+suffix, err)
		}
		dbUsage += uint64(info.Size())
	}

	return &storage.Estimate{
		Quota:         usage.Total,
		Usage:         usage.Used,
		DatabaseUsage: dbUsage,
	}, nil
}
