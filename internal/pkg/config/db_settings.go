package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SqliteDbType selects the embedded SQLite backend
const SqliteDbType = "sqlite"

// PostgresDbType selects the PostgreSQL backend
const PostgresDbType = "postgres"

// InMemoryDSN is the SQLite DSN of a store that lives only as long as the process
const InMemoryDSN = ":memory:"

// DatabaseSettings describes where the record store lives.
// An empty DSN selects an in-memory SQLite store.
type DatabaseSettings struct {
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	DSN  string `mapstructure:"dsn" validate:"required_if=Type postgres"`
	Name string `mapstructure:"name" validate:"omitempty,alphanum,max=63"`
}

// Validate checks that all fields in DatabaseSettings are valid
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	return nil
}

// IsInMemory reports whether the settings point at a store without backing file
func (s *DatabaseSettings) IsInMemory() bool {
	if s.Type != SqliteDbType {
		return false
	}
	return s.DSN == "" || strings.Contains(s.DSN, InMemoryDSN) || strings.Contains(s.DSN, "mode=memory")
}
