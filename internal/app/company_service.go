package app

import (
	"context"
	"fmt"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
)

// companyService implements records.CompanyService
type companyService struct {
	provider  records.StoreProvider
	generator records.Generator
	notifier  Notifier
	logger    logger.Logger
}

// NewCompanyService creates a new instance of CompanyService
func NewCompanyService(provider records.StoreProvider, generator records.Generator, notifier Notifier, logger logger.Logger) (records.CompanyService, error) {
	return &companyService{
		provider:  provider,
		generator: generator,
		notifier:  notifier,
		logger:    logger,
	}, nil
}

// List returns every company, newest first
func (s *companyService) List(ctx context.Context) ([]*records.Company, error) {
	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return nil, err
	}

	companies, err := store.ListCompanies(ctx, records.NewListQuery())
	if err != nil {
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return nil, err
	}
	return companies, nil
}

// Add inserts a company with a generated name
func (s *companyService) Add(ctx context.Context) (*records.Company, error) {
	company := &records.Company{Name: s.generator.CompanyName()}

	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, MsgAddCompanyFailed, company.Name)
		return nil, err
	}

	if _, err := store.InsertCompany(ctx, company); err != nil {
		s.logger.Error("Failed to add company: ", err)
		notify(s.notifier, VariantError, MsgAddCompanyFailed, company.Name)
		return nil, err
	}

	notify(s.notifier, VariantSuccess, MsgAddCompanySuccess, company.Name)
	return company, nil
}

// Remove deletes the company with id; an absent id fails with a NotFound error
func (s *companyService) Remove(ctx context.Context, id int64) error {
	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, MsgRemoveCompanyFailed, err.Error())
		return err
	}

	found, err := store.CompaniesByIDs(ctx, []int64{id})
	if err != nil {
		notify(s.notifier, VariantError, MsgRemoveCompanyFailed, err.Error())
		return err
	}
	if len(found) == 0 {
		notify(s.notifier, VariantError, MsgCompanyNotFound, "")
		return records.NewError(records.KindNotFound, "remove company", fmt.Errorf("company %d", id))
	}
	company := found[0]

	if err := store.DeleteByID(ctx, records.TableCompanies, id); err != nil {
		s.logger.Error("Failed to remove company: ", err)
		notify(s.notifier, VariantError, MsgRemoveCompanyFailed, company.Name)
		return err
	}

	notify(s.notifier, VariantSuccess, MsgRemoveCompanySuccess, company.Name)
	return nil
}
