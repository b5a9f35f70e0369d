package records

import (
	"golang.org/x/text/unicode/norm"
)

// TableUsers is the name of the user collection
const TableUsers = "users"

// User entity. CompanyID is a non-enforced reference: it may be nil or point at a
// company that no longer exists.
type User struct {
	ID        int64  `json:"id,omitempty" yaml:"id,omitempty" validate:"min=0"`
	Name      string `json:"name" yaml:"name"`
	Email     string `json:"email" yaml:"email"`
	CompanyID *int64 `json:"companyId,omitempty" yaml:"companyId,omitempty" validate:"omitempty,min=1"`
}

// Normalize puts the textual fields into Unicode NFC form
func (u *User) Normalize() {
	u.Name = norm.NFC.String(u.Name)
	u.Email = norm.NFC.String(u.Email)
}

// Validate for validating User struct
func (u *User) Validate() error {
	return validateStruct(u)
}

// UserWithCompany is a user joined with the company it references.
// Company is nil when the user has no company or the company is gone.
type UserWithCompany struct {
	User    `yaml:",inline"`
	Company *Company `json:"company,omitempty" yaml:"company,omitempty"`
}

// CompanyName returns the joined company's name or an empty string
func (u UserWithCompany) CompanyName() string {
	if u.Company == nil {
		return ""
	}
	return u.Company.Name
}

// JoinCompanies resolves every user's company from companies.
// Dangling references resolve to no company.
func JoinCompanies(users []*User, companies []*Company) []UserWithCompany {
	byID := make(map[int64]*Company, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
	}

	joined := make([]UserWithCompany, 0, len(users))
	for _, u := range users {
		row := UserWithCompany{User: *u}
		if u.CompanyID != nil {
			row.Company = byID[*u.CompanyID]
		}
		joined = append(joined, row)
	}
	return joined
}

// CompanyIDs returns the distinct company ids referenced by users, in first-seen order
func CompanyIDs(users []*User) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, u := range users {
		if u.CompanyID == nil || seen[*u.CompanyID] {
			continue
		}
		seen[*u.CompanyID] = true
		ids = append(ids, *u.CompanyID)
	}
	return ids
}
