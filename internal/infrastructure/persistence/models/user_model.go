package models

import (
	"github.com/MGTheTrain/record-vault/internal/domain/records"
)

// UserModel is the GORM database model for users.
// CompanyID is a plain indexed column without a foreign key constraint,
// so users may outlive the company they reference.
type UserModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:text;index:idx_users_name"`
	Email     string `gorm:"type:text;index:idx_users_email"`
	CompanyID *int64 `gorm:"index:idx_users_company_id"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return records.TableUsers
}

// ToDomain converts GORM model to domain entity
func (m *UserModel) ToDomain() *records.User {
	u := &records.User{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
	}
	if m.CompanyID != nil {
		companyID := *m.CompanyID
		u.CompanyID = &companyID
	}
	return u
}

// FromDomain converts domain entity to GORM model
func (m *UserModel) FromDomain(u *records.User) {
	m.ID = u.ID
	m.Name = u.Name
	m.Email = u.Email
	m.CompanyID = nil
	if u.CompanyID != nil {
		companyID := *u.CompanyID
		m.CompanyID = &companyID
	}
}
