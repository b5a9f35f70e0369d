package records

// SortAscending lists oldest records first
const SortAscending = "asc"

// SortDescending lists newest records first
const SortDescending = "desc"

// ListQuery orders a full collection listing by primary key
type ListQuery struct {
	SortOrder string `validate:"required,oneof=asc desc"`
}

// NewListQuery returns the default listing order, newest first
func NewListQuery() *ListQuery {
	return &ListQuery{SortOrder: SortDescending}
}

// Validate for validating ListQuery struct
func (q *ListQuery) Validate() error {
	return validateStruct(q)
}
