package records

import (
	"golang.org/x/text/unicode/norm"
)

// TableCompanies is the name of the company collection
const TableCompanies = "companies"

// Company entity. ID is zero until the store assigns one.
type Company struct {
	ID   int64  `json:"id,omitempty" yaml:"id,omitempty" validate:"min=0"`
	Name string `json:"name" yaml:"name"`
}

// Normalize puts the textual fields into Unicode NFC form
func (c *Company) Normalize() {
	c.Name = norm.NFC.String(c.Name)
}

// Validate for validating Company struct
func (c *Company) Validate() error {
	return validateStruct(c)
}
