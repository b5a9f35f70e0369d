//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseSettingsValidation(t *testing.T) {
	tests := []struct {
		name          string
		settings      *DatabaseSettings
		expectedError bool
	}{
		{
			name: "valid postgres settings",
			settings: &DatabaseSettings{
				Type: PostgresDbType,
				DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
				Name: "recordvault",
			},
			expectedError: false,
		},
		{
			name: "valid sqlite file",
			settings: &DatabaseSettings{
				Type: SqliteDbType,
				DSN:  "record-vault.db",
			},
			expectedError: false,
		},
		{
			name: "sqlite without dsn falls back to memory",
			settings: &DatabaseSettings{
				Type: SqliteDbType,
			},
			expectedError: false,
		},
		{
			name: "missing type",
			settings: &DatabaseSettings{
				DSN: "record-vault.db",
			},
			expectedError: true,
		},
		{
			name: "unsupported type",
			settings: &DatabaseSettings{
				Type: "mysql",
				DSN:  "user:password@tcp(localhost:3306)/dbname",
			},
			expectedError: true,
		},
		{
			name: "postgres without dsn",
			settings: &DatabaseSettings{
				Type: PostgresDbType,
				Name: "recordvault",
			},
			expectedError: true,
		},
		{
			name: "invalid database name",
			settings: &DatabaseSettings{
				Type: PostgresDbType,
				DSN:  "host=localhost",
				Name: "drop table;",
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()

			if tt.expectedError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDatabaseSettings_IsInMemory(t *testing.T) {
	tests := []struct {
		name     string
		settings DatabaseSettings
		expected bool
	}{
		{"empty dsn", DatabaseSettings{Type: SqliteDbType}, true},
		{"memory dsn", DatabaseSettings{Type: SqliteDbType, DSN: InMemoryDSN}, true},
		{"shared memory dsn", DatabaseSettings{Type: SqliteDbType, DSN: "file:rv?mode=memory&cache=shared"}, true},
		{"file dsn", DatabaseSettings{Type: SqliteDbType, DSN: "record-vault.db"}, false},
		{"postgres", DatabaseSettings{Type: PostgresDbType, DSN: "host=localhost"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsInMemory())
		})
	}
}
