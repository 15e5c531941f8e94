package repository

import (
	"context"
	"time"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	return translate(r.db.WithContext(ctx).Create(referral).Error)
}

// CodeExists checks both invitation codes and standing personal codes.
func (r *ReferralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Referral{}).
		Where("code = ?", code).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("referral_code = ?", code).Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *ReferralRepository) GetByCode(ctx context.Context, code string) (*models.Referral, error) {
	var referral models.Referral
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&referral).Error; err != nil {
		return nil, translate(err)
	}
	return &referral, nil
}

// MarkUsed moves a pending referral of the tenant to used. A referral that is
// no longer pending, or belongs to another tenant, yields ErrConflict.
func (r *ReferralRepository) MarkUsed(ctx context.Context, tenantID, referralID, customerID uuid.UUID, at time.Time) error {
	scope := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return r.transition(scope, referralID, map[string]interface{}{
		"status":              models.ReferralStatusUsed,
		"used_at":             at,
		"used_by_customer_id": customerID,
	})
}

func (r *ReferralRepository) MarkExpired(ctx context.Context, referralID uuid.UUID) error {
	return r.transition(r.db.WithContext(ctx), referralID, map[string]interface{}{
		"status": models.ReferralStatusExpired,
	})
}

func (r *ReferralRepository) transition(db *gorm.DB, referralID uuid.UUID, updates map[string]interface{}) error {
	res := db.Model(&models.Referral{}).
		Where("id = ? AND status = ?", referralID, models.ReferralStatusPending).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, tenantID, referrerID uuid.UUID) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND referrer_id = ?", tenantID, referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, translate(err)
}
