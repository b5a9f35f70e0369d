package models

import (
	"github.com/MGTheTrain/record-vault/internal/domain/records"
)

// CompanyModel is the GORM database model for companies.
// Name holds ciphertext at rest when the field encryption plugin is installed.
type CompanyModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:text;index:idx_companies_name"`
}

// TableName specifies the table name for GORM
func (CompanyModel) TableName() string {
	return records.TableCompanies
}

// ToDomain converts GORM model to domain entity
func (m *CompanyModel) ToDomain() *records.Company {
	return &records.Company{
		ID:   m.ID,
		Name: m.Name,
	}
}

// FromDomain converts domain entity to GORM model
func (m *CompanyModel) FromDomain(c *records.Company) {
	m.ID = c.ID
	m.Name = c.Name
}
