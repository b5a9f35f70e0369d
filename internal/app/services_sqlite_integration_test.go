//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_AddAndList(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	first, err := services.CompanyService.Add(ctx)
	require.NoError(t, err)
	second, err := services.CompanyService.Add(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, first.Name)
	assert.Greater(t, second.ID, first.ID)
	assert.Equal(t, MsgAddCompanySuccess, services.LastNotification(t).Title)

	companies, err := services.CompanyService.List(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, second.ID, companies[0].ID, "newest first")
	assert.Equal(t, first.Name, companies[1].Name)
}

func TestCompanyService_RemoveAbsentID(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	err := services.CompanyService.Remove(context.Background(), 999)
	require.ErrorIs(t, err, records.ErrNotFound)

	last := services.LastNotification(t)
	assert.Equal(t, VariantError, last.Variant)
	assert.Equal(t, MsgCompanyNotFound, last.Title)
}

func TestUserService_AssignsExistingCompany(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	store := services.Store(t)

	companyID, err := store.InsertCompany(ctx, &records.Company{Name: "Acme"})
	require.NoError(t, err)

	user, err := services.UserService.Add(ctx)
	require.NoError(t, err)
	require.NotNil(t, user.CompanyID)
	assert.Equal(t, companyID, *user.CompanyID)

	users, err := services.UserService.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Acme", users[0].CompanyName())
}

func TestUserService_AddWithoutCompanies(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	user, err := services.UserService.Add(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user.CompanyID)
}

func TestUserService_ToleratesDeletedCompany(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	store := services.Store(t)

	companyID, err := store.InsertCompany(ctx, &records.Company{Name: "Acme"})
	require.NoError(t, err)
	_, err = store.InsertUser(ctx, &records.User{Name: "Jane", Email: "jane@acme.test", CompanyID: &companyID})
	require.NoError(t, err)

	require.NoError(t, services.CompanyService.Remove(ctx, companyID))

	users, err := services.UserService.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, companyID, *users[0].CompanyID, "reference is kept")
	assert.Nil(t, users[0].Company)
	assert.Empty(t, users[0].CompanyName())
}

func TestUserService_Remove(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	user, err := services.UserService.Add(ctx)
	require.NoError(t, err)

	require.NoError(t, services.UserService.Remove(ctx, user.ID))
	assert.Equal(t, MsgRemoveUserSuccess, services.LastNotification(t).Title)

	err = services.UserService.Remove(ctx, user.ID)
	require.ErrorIs(t, err, records.ErrNotFound)
	assert.Equal(t, MsgUserNotFound, services.LastNotification(t).Title)
}

func TestRecordStore_DeleteIsIdempotent(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	store := services.Store(t)

	sub := services.Bus.Subscribe()
	defer sub.Unsubscribe()

	require.NoError(t, store.DeleteByID(ctx, records.TableCompanies, 7))
	require.NoError(t, store.DeleteByID(ctx, records.TableCompanies, 7))

	id, err := store.InsertCompany(ctx, &records.Company{Name: "Acme"})
	require.NoError(t, err)

	// the absent deletes published nothing, so the insert is the first event
	event := <-sub.Events()
	require.Len(t, event.Changes, 1)
	assert.Equal(t, records.OperationCreate, event.Changes[0].Operation)
	assert.Equal(t, id, event.Changes[0].Key)
}

func TestRecordStore_DeleteUnknownTable(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)

	err := services.Store(t).DeleteByID(context.Background(), "orders", 1)
	require.ErrorIs(t, err, records.ErrUnknown)
}

func TestRecordStore_NormalizesText(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()
	store := services.Store(t)

	// "e" followed by a combining acute accent
	_, err := store.InsertCompany(ctx, &records.Company{Name: "Cafe\u0301"})
	require.NoError(t, err)

	companies, err := store.ListCompanies(ctx, records.NewListQuery())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Caf\u00e9", companies[0].Name)
}

func TestRecordStore_ClosedStoreIsUnavailable(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	store := services.Store(t)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err := store.ListCompanies(context.Background(), records.NewListQuery())
	require.ErrorIs(t, err, records.ErrStoreUnavailable)
}
