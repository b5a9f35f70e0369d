package persistence

import (
	"context"
	"fmt"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormCompanyRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormCompanyRepository creates a new GORM-based CompanyRepository implementation
func NewGormCompanyRepository(db *gorm.DB, logger logger.Logger) (records.CompanyRepository, error) {
	return &gormCompanyRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormCompanyRepository) Create(ctx context.Context, c *records.Company) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.CompanyModel{}
	model.FromDomain(c)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	c.ID = model.ID
	r.logger.Info("Created company with id ", c.ID)
	return nil
}

func (r *gormCompanyRepository) CreateBatch(ctx context.Context, companies []*records.Company) error {
	for _, c := range companies {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validation error for company %d: %w", c.ID, err)
		}

		model := &models.CompanyModel{}
		model.FromDomain(c)
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return fmt.Errorf("failed to create company %d: %w", c.ID, err)
		}
		c.ID = model.ID
	}

	r.logger.Info("Created ", len(companies), " companies")
	return nil
}

func (r *gormCompanyRepository) List(ctx context.Context, query *records.ListQuery) ([]*records.Company, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.CompanyModel
	if err := r.db.WithContext(ctx).Order("id " + query.SortOrder).Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}

	return companiesToDomain(modelList), nil
}

func (r *gormCompanyRepository) GetByIDs(ctx context.Context, ids []int64) ([]*records.Company, error) {
	if len(ids) == 0 {
		return []*records.Company{}, nil
	}

	var modelList []*models.CompanyModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch companies by id: %w", err)
	}

	return companiesToDomain(modelList), nil
}

func (r *gormCompanyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CompanyModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return count, nil
}

func (r *gormCompanyRepository) GetAt(ctx context.Context, offset int) (*records.Company, error) {
	var modelList []*models.CompanyModel
	if err := r.db.WithContext(ctx).Order("id asc").Offset(offset).Limit(1).Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch company at offset %d: %w", offset, err)
	}
	if len(modelList) == 0 {
		return nil, records.NewError(records.KindNotFound, "company at offset", fmt.Errorf("no company at offset %d", offset))
	}
	return modelList[0].ToDomain(), nil
}

func (r *gormCompanyRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.CompanyModel{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete company: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Deleted company with id ", id)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormCompanyRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.CompanyModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear companies: %w", err)
	}
	r.logger.Info("Cleared companies")
	return nil
}

func companiesToDomain(modelList []*models.CompanyModel) []*records.Company {
	domainList := make([]*records.Company, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList
}
