package persistence

import (
	"context"
	"fmt"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormUserRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormUserRepository creates a new GORM-based UserRepository implementation
func NewGormUserRepository(db *gorm.DB, logger logger.Logger) (records.UserRepository, error) {
	return &gormUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormUserRepository) Create(ctx context.Context, u *records.User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.UserModel{}
	model.FromDomain(u)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = model.ID
	r.logger.Info("Created user with id ", u.ID)
	return nil
}

func (r *gormUserRepository) CreateBatch(ctx context.Context, users []*records.User) error {
	for _, u := range users {
		if err := u.Validate(); err != nil {
			return fmt.Errorf("validation error for user %d: %w", u.ID, err)
		}

		model := &models.UserModel{}
		model.FromDomain(u)
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return fmt.Errorf("failed to create user %d: %w", u.ID, err)
		}
		u.ID = model.ID
	}

	r.logger.Info("Created ", len(users), " users")
	return nil
}

func (r *gormUserRepository) List(ctx context.Context, query *records.ListQuery) ([]*records.User, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.UserModel
	if err := r.db.WithContext(ctx).Order("id " + query.SortOrder).Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	domainList := make([]*records.User, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormUserRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete user: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Deleted user with id ", id)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormUserRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.UserModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	r.logger.Info("Cleared users")
	return nil
}
