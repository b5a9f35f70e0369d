//go:build integration
// +build integration

package app

import (
	"context"
	"strings"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAcme(t *testing.T, store records.RecordStore) (companyID int64) {
	t.Helper()
	ctx := context.Background()

	companyID, err := store.InsertCompany(ctx, &records.Company{Name: "Acme"})
	require.NoError(t, err)
	_, err = store.InsertUser(ctx, &records.User{Name: "Jane", Email: "jane@acme.test", CompanyID: &companyID})
	require.NoError(t, err)
	_, err = store.InsertUser(ctx, &records.User{Name: "John", Email: "john@example.test"})
	require.NoError(t, err)
	return companyID
}

func TestSnapshotService_ExportResetImportRoundTrip(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	seedAcme(t, services.Store(t))

	exported, err := services.SnapshotService.Export(ctx)
	require.NoError(t, err)

	require.NoError(t, services.SnapshotService.Reset(ctx))
	assert.Equal(t, MsgResetSuccess, services.LastNotification(t).Title)
	assert.Equal(t, StateOpen, services.Shell.State())

	companies, err := services.CompanyService.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, companies)

	require.NoError(t, services.SnapshotService.Import(ctx, exported, records.ImportOptions{ClearBeforeImport: true}))
	assert.Equal(t, MsgImportSuccess, services.LastNotification(t).Title)

	reexported, err := services.SnapshotService.Export(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(exported), string(reexported))

	users, err := services.UserService.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "John", users[0].Name)
	assert.Equal(t, "Acme", users[1].CompanyName())
}

func TestSnapshotService_LongFieldsRoundTrip(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	store := services.Store(t)

	longName := strings.Repeat("n\u00e9", 500)
	longEmail := strings.Repeat("e", 1000) + "@example.test"

	companyID, err := store.InsertCompany(ctx, &records.Company{Name: longName})
	require.NoError(t, err)
	_, err = store.InsertUser(ctx, &records.User{Name: longName, Email: longEmail, CompanyID: &companyID})
	require.NoError(t, err)

	exported, err := services.SnapshotService.Export(ctx)
	require.NoError(t, err)
	require.NoError(t, services.SnapshotService.Import(ctx, exported, records.ImportOptions{ClearBeforeImport: true}))

	companies, err := services.CompanyService.List(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, longName, companies[0].Name)

	users, err := services.UserService.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, longName, users[0].Name)
	assert.Equal(t, longEmail, users[0].Email)
	assert.Equal(t, longName, users[0].CompanyName())
}

func TestSnapshotService_ImportKeepsIDsAndContinuesSequence(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	store := services.Store(t)
	seedAcme(t, store)

	exported, err := services.SnapshotService.Export(ctx)
	require.NoError(t, err)
	require.NoError(t, services.SnapshotService.Reset(ctx))
	require.NoError(t, services.SnapshotService.Import(ctx, exported, records.ImportOptions{}))

	id, err := services.Store(t).InsertCompany(ctx, &records.Company{Name: "Globex"})
	require.NoError(t, err)
	assert.Greater(t, id, int64(1))
}

func TestSnapshotService_MalformedImportLeavesStoreUnchanged(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	seedAcme(t, services.Store(t))

	err := services.SnapshotService.Import(ctx, []byte(`{"formatName":"dexie"`), records.ImportOptions{ClearBeforeImport: true})
	require.ErrorIs(t, err, records.ErrImport)

	last := services.LastNotification(t)
	assert.Equal(t, VariantError, last.Variant)
	assert.Equal(t, err.Error(), last.Title)

	companies, err := services.CompanyService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 1)
}

func TestSnapshotService_ConflictingImportIsAtomic(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	seedAcme(t, services.Store(t))

	exported, err := services.SnapshotService.Export(ctx)
	require.NoError(t, err)

	// the same keys already exist, so the insert fails after nothing was cleared
	err = services.SnapshotService.Import(ctx, exported, records.ImportOptions{})
	require.ErrorIs(t, err, records.ErrImport)

	users, err := services.UserService.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestSnapshotService_ImportPublishesChanges(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	seedAcme(t, services.Store(t))

	exported, err := services.SnapshotService.Export(ctx)
	require.NoError(t, err)

	sub := services.Bus.Subscribe()
	defer sub.Unsubscribe()

	require.NoError(t, services.SnapshotService.Import(ctx, exported, records.ImportOptions{ClearBeforeImport: true}))

	event := <-sub.Events()
	assert.True(t, event.Touches(records.TableCompanies))
	assert.True(t, event.Touches(records.TableUsers))
	assert.Equal(t, records.OperationClear, event.Changes[0].Operation)
	assert.Len(t, event.Changes, 2+1+2)
}
