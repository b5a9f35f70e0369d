//go:build unit
// +build unit

package diskusage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/storage"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimator_FileStore(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "record-vault.db")
	require.NoError(t, os.WriteFile(dbPath, make([]byte, 4096), 0600))
	require.NoError(t, os.WriteFile(dbPath+"-wal", make([]byte, 1024), 0600))

	settings := config.DatabaseSettings{Type: config.SqliteDbType, DSN: "file:" + dbPath + "?cache=shared"}
	estimate, err := NewEstimator(settings, testutil.SetupTestLogger(t)).Estimate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(5120), estimate.DatabaseUsage)
	assert.Positive(t, estimate.Quota)
	assert.GreaterOrEqual(t, estimate.Quota, estimate.Usage)
}

func TestEstimator_Unsupported(t *testing.T) {
	tests := []struct {
		name     string
		settings config.DatabaseSettings
	}{
		{name: "memory", settings: config.DatabaseSettings{Type: config.SqliteDbType, DSN: config.InMemoryDSN}},
		{name: "shared memory", settings: config.DatabaseSettings{Type: config.SqliteDbType, DSN: "file:rv?mode=memory&cache=shared"}},
		{name: "empty dsn", settings: config.DatabaseSettings{Type: config.SqliteDbType}},
		{name: "postgres", settings: config.DatabaseSettings{Type: config.PostgresDbType, DSN: "host=localhost"}},
	}

	logger := testutil.SetupTestLogger(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEstimator(tt.settings, logger).Estimate(context.Background())
			assert.ErrorIs(t, err, storage.ErrUnsupported)

			_, err = NewPersistenceGranter(tt.settings, logger).Persisted(context.Background())
			assert.ErrorIs(t, err, storage.ErrUnsupported)
		})
	}
}

func TestGranter_TempDirIsNotPersisted(t *testing.T) {
	settings := config.DatabaseSettings{Type: config.SqliteDbType, DSN: filepath.Join(t.TempDir(), "record-vault.db")}
	granter := NewPersistenceGranter(settings, testutil.SetupTestLogger(t))

	persisted, err := granter.Persisted(context.Background())
	require.NoError(t, err)
	assert.False(t, persisted)

	persisted, err = granter.Persist(context.Background())
	require.NoError(t, err)
	assert.False(t, persisted)
}

func TestWithin(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		name     string
		path     string
		dir      string
		expected bool
	}{
		{name: "same", path: sep + "data", dir: sep + "data", expected: true},
		{name: "below", path: filepath.Join(sep, "data", "rv.db"), dir: sep + "data", expected: true},
		{name: "sibling prefix", path: filepath.Join(sep, "database", "rv.db"), dir: sep + "data", expected: false},
		{name: "above", path: sep + "data", dir: filepath.Join(sep, "data", "sub"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, within(tt.path, tt.dir))
		})
	}
}
