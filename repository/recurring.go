package repository

import (
	"context"
	"time"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecurringTemplateRepository struct {
	db *gorm.DB
}

func NewRecurringTemplateRepository(db *gorm.DB) *RecurringTemplateRepository {
	return &RecurringTemplateRepository{db: db}
}

func (r *RecurringTemplateRepository) Create(ctx context.Context, template *models.RecurringInvoiceTemplate) error {
	return translate(r.db.WithContext(ctx).Create(template).Error)
}

func (r *RecurringTemplateRepository) Get(ctx context.Context, tenantID, templateID uuid.UUID) (*models.RecurringInvoiceTemplate, error) {
	var template models.RecurringInvoiceTemplate
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, templateID).
		First(&template).Error
	if err != nil {
		return nil, translate(err)
	}
	return &template, nil
}

// ListDue returns active templates, across all tenants, whose next
// generation date is on or before asOf.
func (r *RecurringTemplateRepository) ListDue(ctx context.Context, asOf time.Time) ([]models.RecurringInvoiceTemplate, error) {
	var templates []models.RecurringInvoiceTemplate
	err := r.db.WithContext(ctx).Preload("Items").
		Where("active = ? AND next_generation_date <= ?", true, asOf).
		Order("next_generation_date").
		Find(&templates).Error
	return templates, translate(err)
}

// Advance records one successful generation.
func (r *RecurringTemplateRepository) Advance(ctx context.Context, template *models.RecurringInvoiceTemplate) error {
	res := r.db.WithContext(ctx).Model(&models.RecurringInvoiceTemplate{}).
		Where("id = ?", template.ID).
		Updates(map[string]interface{}{
			"next_generation_date": template.NextGenerationDate,
			"generated_count":      template.GeneratedCount,
			"last_generated_at":    template.LastGeneratedAt,
			"active":               template.Active,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RecurringTemplateRepository) Deactivate(ctx context.Context, templateID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.RecurringInvoiceTemplate{}).
		Where("id = ?", templateID).
		Update("active", false)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
