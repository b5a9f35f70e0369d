package models

// SchemaMetaModel records the schema version of a store and a key check value:
// a known plaintext sealed with the store's encryption key.
type SchemaMetaModel struct {
	Name     string `gorm:"primaryKey;type:varchar(64)"`
	Version  int    `gorm:"not null"`
	KeyCheck string `gorm:"type:text;not null"`
}

// TableName specifies the table name for GORM
func (SchemaMetaModel) TableName() string {
	return "schema_meta"
}

// All returns every model of the store in creation order
func All() []interface{} {
	return []interface{}{&SchemaMetaModel{}, &CompanyModel{}, &UserModel{}}
}
