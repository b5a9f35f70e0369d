//go:build integration
// +build integration

package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fileSettings(t *testing.T) config.DatabaseSettings {
	t.Helper()
	return config.DatabaseSettings{
		Type: config.SqliteDbType,
		DSN:  filepath.Join(t.TempDir(), "record-vault.db"),
	}
}

func TestConnection_ReopenWithSameKey(t *testing.T) {
	settings := fileSettings(t)

	conn, err := OpenTestConnection(t, settings, testutil.EncryptionSettings())
	require.NoError(t, err)
	db, err := conn.DB()
	require.NoError(t, err)

	repo, err := NewGormCompanyRepository(db, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &records.Company{Name: "Acme Inc"}))
	require.NoError(t, conn.Close())

	conn, err = OpenTestConnection(t, settings, testutil.EncryptionSettings())
	require.NoError(t, err)
	db, err = conn.DB()
	require.NoError(t, err)

	repo, err = NewGormCompanyRepository(db, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	companies, err := repo.List(context.Background(), records.NewListQuery())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Acme Inc", companies[0].Name)
}

func TestConnection_OpenWithOtherKey(t *testing.T) {
	settings := fileSettings(t)

	conn, err := OpenTestConnection(t, settings, testutil.EncryptionSettings())
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	other := testutil.EncryptionSettings()
	other.Key = testutil.OtherEncryptionKey

	_, err = OpenTestConnection(t, settings, other)
	assert.ErrorIs(t, err, ErrKeyMismatch)
}

func TestConnection_OpenWithOtherSchemaVersion(t *testing.T) {
	settings := fileSettings(t)

	conn, err := OpenTestConnection(t, settings, testutil.EncryptionSettings())
	require.NoError(t, err)
	db, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, db.Exec("UPDATE schema_meta SET version = ?", records.SchemaVersion+1).Error)
	require.NoError(t, conn.Close())

	_, err = OpenTestConnection(t, settings, testutil.EncryptionSettings())
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestConnection_Lifecycle(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	settings := config.DatabaseSettings{Type: config.SqliteDbType, DSN: config.InMemoryDSN}
	encryption := testutil.EncryptionSettings()

	conn, err := NewConnection(settings, logger)
	require.NoError(t, err)

	assert.ErrorIs(t, conn.Open(context.Background()), ErrNotInstalled)
	_, err = conn.DB()
	assert.Error(t, err)

	cipher, err := cryptography.NewFieldCipher(&encryption, logger)
	require.NoError(t, err)
	plugin := NewFieldEncryption(cipher, encryption.Fields, logger)

	require.NoError(t, conn.Install(plugin))
	require.NoError(t, conn.Open(context.Background()))
	assert.ErrorIs(t, conn.Install(plugin), ErrInstallAfterOpen)

	require.NoError(t, conn.Drop(context.Background()))
	_, err = conn.DB()
	assert.ErrorIs(t, err, ErrConnectionClosed)
	assert.NoError(t, conn.Close())
}

func TestConnection_RejectsColumnMapUpdates(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	company := CreateTestCompany(t, "Acme Inc")
	require.NoError(t, ctx.CompanyRepo.Create(context.Background(), company))

	err := ctx.DB.Model(&models.CompanyModel{}).Where("id = ?", company.ID).
		Updates(map[string]interface{}{"name": "plain"}).Error
	assert.ErrorIs(t, err, ErrUnencryptedUpdate)
}

func TestConnection_Transaction(t *testing.T) {
	ctx := SetupTestDB(t, config.SqliteDbType)

	err := ctx.Conn.Transaction(context.Background(), func(tx *gorm.DB) error {
		repo, err := NewGormCompanyRepository(tx, testutil.SetupTestLogger(t))
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), &records.Company{Name: "Rolled back"}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	count, err := ctx.CompanyRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
