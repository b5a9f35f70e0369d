package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
)

// userService implements records.UserService
type userService struct {
	provider  records.StoreProvider
	generator records.Generator
	notifier  Notifier
	logger    logger.Logger
}

// NewUserService creates a new instance of UserService
func NewUserService(provider records.StoreProvider, generator records.Generator, notifier Notifier, logger logger.Logger) (records.UserService, error) {
	return &userService{
		provider:  provider,
		generator: generator,
		notifier:  notifier,
		logger:    logger,
	}, nil
}

// List returns every user, newest first, joined with the companies it references.
// Referenced companies are fetched in one batch; unresolved references stay empty.
func (s *userService) List(ctx context.Context) ([]records.UserWithCompany, error) {
	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return nil, err
	}

	users, err := store.ListUsers(ctx, records.NewListQuery())
	if err != nil {
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return nil, err
	}

	companies, err := store.CompaniesByIDs(ctx, records.CompanyIDs(users))
	if err != nil {
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return nil, err
	}

	return records.JoinCompanies(users, companies), nil
}

// Add inserts a user with generated name and email, assigned to a uniformly
// chosen existing company, or to none when there are no companies
func (s *userService) Add(ctx context.Context) (*records.User, error) {
	user := &records.User{
		Name:  s.generator.PersonName(),
		Email: s.generator.Email(),
	}

	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, MsgAddUserFailed, user.Name)
		return nil, err
	}

	if err := s.pickCompany(ctx, store, user); err != nil {
		s.logger.Error("Failed to pick a company: ", err)
		notify(s.notifier, VariantError, MsgAddUserFailed, user.Name)
		return nil, err
	}

	if _, err := store.InsertUser(ctx, user); err != nil {
		s.logger.Error("Failed to add user: ", err)
		notify(s.notifier, VariantError, MsgAddUserFailed, user.Name)
		return nil, err
	}

	notify(s.notifier, VariantSuccess, MsgAddUserSuccess, user.Name)
	return user, nil
}

func (s *userService) pickCompany(ctx context.Context, store records.RecordStore, user *records.User) error {
	count, err := store.CountCompanies(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	company, err := store.CompanyAt(ctx, s.generator.Intn(int(count)))
	if errors.Is(err, records.ErrNotFound) {
		// deleted since counting
		return nil
	}
	if err != nil {
		return err
	}
	user.CompanyID = &company.ID
	return nil
}

// Remove deletes the user with id; an absent id fails with a NotFound error
func (s *userService) Remove(ctx context.Context, id int64) error {
	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, MsgRemoveUserFailed, err.Error())
		return err
	}

	users, err := store.ListUsers(ctx, records.NewListQuery())
	if err != nil {
		notify(s.notifier, VariantError, MsgRemoveUserFailed, err.Error())
		return err
	}

	var user *records.User
	for _, u := range users {
		if u.ID == id {
			user = u
			break
		}
	}
	if user == nil {
		notify(s.notifier, VariantError, MsgUserNotFound, "")
		return records.NewError(records.KindNotFound, "remove user", fmt.Errorf("user %d", id))
	}

	if err := store.DeleteByID(ctx, records.TableUsers, id); err != nil {
		s.logger.Error("Failed to remove user: ", err)
		notify(s.notifier, VariantError, MsgRemoveUserFailed, user.Name)
		return err
	}

	notify(s.notifier, VariantSuccess, MsgRemoveUserSuccess, user.Name)
	return nil
}
