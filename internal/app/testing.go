//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/changefeed"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/fakedata"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/persistence"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/snapshot"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestServices holds an open shell and every service built on it
type TestServices struct {
	Shell           *Shell
	Bus             *changefeed.Bus
	Notifications   *NotificationLog
	CompanyService  records.CompanyService
	UserService     records.UserService
	SnapshotService records.SnapshotService
}

// SetupTestServices opens an encrypted store of dbType behind a shell
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()
	return SetupTestServicesWithSettings(t, persistence.TestSettings(t, dbType), testutil.EncryptionSettings())
}

// SetupTestServicesWithSettings opens a store for the given settings. The shell is
// closed on cleanup.
func SetupTestServicesWithSettings(t *testing.T, dbSettings config.DatabaseSettings, encSettings config.EncryptionSettings) *TestServices {
	t.Helper()

	services, err := newTestServices(t, dbSettings, encSettings)
	require.NoError(t, err, "Failed to open store")
	return services
}

func newTestServices(t *testing.T, dbSettings config.DatabaseSettings, encSettings config.EncryptionSettings) (*TestServices, error) {
	t.Helper()

	logger := testutil.SetupTestLogger(t)

	codec, err := snapshot.NewDexieCodec()
	require.NoError(t, err, "Failed to create snapshot codec")

	cfg := &config.AppConfig{Database: dbSettings, Encryption: encSettings}
	bus := changefeed.NewBus(logger)
	shell := NewShell(NewStoreOpener(cfg, codec, logger), bus, logger)
	t.Cleanup(func() { _ = shell.Close() })

	notifications := NewNotificationLog(50, NewLogNotifier(logger))
	generator := fakedata.NewGenerator(42)

	companyService, err := NewCompanyService(shell, generator, notifications, logger)
	require.NoError(t, err, "Failed to create CompanyService")

	userService, err := NewUserService(shell, generator, notifications, logger)
	require.NoError(t, err, "Failed to create UserService")

	snapshotService, err := NewSnapshotService(shell, shell, notifications, logger)
	require.NoError(t, err, "Failed to create SnapshotService")

	services := &TestServices{
		Shell:           shell,
		Bus:             bus,
		Notifications:   notifications,
		CompanyService:  companyService,
		UserService:     userService,
		SnapshotService: snapshotService,
	}
	return services, shell.Open(context.Background())
}

// Store returns the open store of the shell
func (s *TestServices) Store(t *testing.T) records.RecordStore {
	t.Helper()

	store, err := s.Shell.Store()
	require.NoError(t, err)
	return store
}

// LastNotification returns the most recent notification
func (s *TestServices) LastNotification(t *testing.T) Notification {
	t.Helper()

	recent := s.Notifications.Recent()
	require.NotEmpty(t, recent, "no notification was sent")
	return recent[len(recent)-1]
}
