package validators

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

// structuralColumns are key or reference columns that queries and joins depend on
var structuralColumns = map[string]bool{
	"id":         true,
	"company_id": true,
	"companyId":  true,
}

// EncryptableColumnsValidation validates a table -> columns map of fields selected for encryption.
// Primary keys and reference columns must stay in the clear.
func EncryptableColumnsValidation(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map {
		return false
	}

	iter := field.MapRange()
	for iter.Next() {
		if iter.Key().String() == "" {
			return false
		}
		columns := iter.Value()
		if columns.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < columns.Len(); i++ {
			column := columns.Index(i).String()
			if column == "" || structuralColumns[column] {
				return false
			}
		}
	}
	return true
}

// SecretKeyLengthValidation validates the decoded key length in bytes against the Algorithm sibling field.
func SecretKeyLengthValidation(fl validator.FieldLevel) bool {
	algorithm := fl.Parent().FieldByName("Algorithm").String()
	keySize := fl.Field().Len()

	switch algorithm {
	case "secretbox":
		return keySize == 32
	case "aes-gcm":
		return keySize == 16 || keySize == 24 || keySize == 32
	default:
		return false
	}
}
