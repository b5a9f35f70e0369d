//go:build unit
// +build unit

package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// companyStore serves CompaniesByIDs from a fixed set of companies
type companyStore struct {
	records.RecordStore
	companies map[int64]*records.Company
	calls     int
}

func (s *companyStore) CompaniesByIDs(_ context.Context, ids []int64) ([]*records.Company, error) {
	s.calls++
	var found []*records.Company
	for _, id := range ids {
		if c, ok := s.companies[id]; ok {
			found = append(found, c)
		}
	}
	return found, nil
}

type storeProvider struct {
	store records.RecordStore
	err   error
}

func (p *storeProvider) Store() (records.RecordStore, error) {
	return p.store, p.err
}

func TestWithCompany(t *testing.T) {
	acmeID, missingID := int64(1), int64(7)
	store := &companyStore{companies: map[int64]*records.Company{acmeID: {ID: acmeID, Name: "Acme Inc"}}}
	provider := &storeProvider{store: store}

	tests := []struct {
		name        string
		user        *records.User
		companyName string
	}{
		{"assigned company", &records.User{ID: 3, Name: "Jane", CompanyID: &acmeID}, "Acme Inc"},
		{"no company", &records.User{ID: 4, Name: "John"}, ""},
		{"deleted company", &records.User{ID: 5, Name: "Joan", CompanyID: &missingID}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := withCompany(context.Background(), provider, tt.user)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, row.ID)
			assert.Equal(t, tt.companyName, row.CompanyName())
		})
	}
}

func TestWithCompany_SkipsLookupWithoutCompany(t *testing.T) {
	store := &companyStore{}
	provider := &storeProvider{store: store, err: errors.New("closed")}

	row, err := withCompany(context.Background(), provider, &records.User{Name: "John"})
	require.NoError(t, err)
	assert.Nil(t, row.Company)
	assert.Zero(t, store.calls)
}

func TestWithCompany_StoreUnavailable(t *testing.T) {
	companyID := int64(1)
	provider := &storeProvider{err: records.ErrStoreUnavailable}

	_, err := withCompany(context.Background(), provider, &records.User{CompanyID: &companyID})
	assert.ErrorIs(t, err, records.ErrStoreUnavailable)
}
