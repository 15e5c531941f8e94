package repository

import (
	"context"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	return translate(r.db.WithContext(ctx).Create(tenant).Error)
}

func (r *TenantRepository) Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, "id = ?", tenantID).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (r *TenantRepository) Settings(ctx context.Context, tenantID uuid.UUID) (models.TenantSettings, error) {
	tenant, err := r.Get(ctx, tenantID)
	if err != nil {
		return models.TenantSettings{}, err
	}
	return tenant.Settings(), nil
}
