//go:build integration
// +build integration

package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds an open test store and its repositories
type TestContext struct {
	Conn        *Connection
	DB          *gorm.DB
	CompanyRepo records.CompanyRepository
	UserRepo    records.UserRepository
}

// TestSettings returns database settings for dbType. PostgreSQL gets a unique
// database which is dropped on cleanup.
func TestSettings(t *testing.T, dbType string) config.DatabaseSettings {
	t.Helper()

	switch dbType {
	case config.SqliteDbType:
		return config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  config.InMemoryDSN,
		}
	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		t.Cleanup(func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		})
		return config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}
	return config.DatabaseSettings{}
}

// OpenTestConnection connects, installs field encryption for encryption and opens the schema
func OpenTestConnection(t *testing.T, settings config.DatabaseSettings, encryption config.EncryptionSettings) (*Connection, error) {
	t.Helper()

	logger := testutil.SetupTestLogger(t)

	conn, err := NewConnection(settings, logger)
	require.NoError(t, err, "Failed to create database connection")
	t.Cleanup(func() { _ = conn.Close() })

	cipher, err := cryptography.NewFieldCipher(&encryption, logger)
	require.NoError(t, err, "Failed to create field cipher")

	require.NoError(t, conn.Install(NewFieldEncryption(cipher, encryption.Fields, logger)))
	return conn, conn.Open(context.Background())
}

// SetupTestDB opens an encrypted test store with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	conn, err := OpenTestConnection(t, TestSettings(t, dbType), testutil.EncryptionSettings())
	require.NoError(t, err, "Failed to open store")

	db, err := conn.DB()
	require.NoError(t, err)

	logger := testutil.SetupTestLogger(t)

	companyRepo, err := NewGormCompanyRepository(db, logger)
	require.NoError(t, err, "Failed to create company repository")

	userRepo, err := NewGormUserRepository(db, logger)
	require.NoError(t, err, "Failed to create user repository")

	return &TestContext{
		Conn:        conn,
		DB:          db,
		CompanyRepo: companyRepo,
		UserRepo:    userRepo,
	}
}

// CreateTestCompany returns an unsaved company
func CreateTestCompany(t *testing.T, name string) *records.Company {
	t.Helper()

	if name == "" {
		name = "Acme Inc"
	}
	return &records.Company{Name: name}
}

// CreateTestUser returns an unsaved user referencing companyID
func CreateTestUser(t *testing.T, name string, companyID *int64) *records.User {
	t.Helper()

	if name == "" {
		name = "Jane Doe"
	}
	return &records.User{
		Name:      name,
		Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		CompanyID: companyID,
	}
}
