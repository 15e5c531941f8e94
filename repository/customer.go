package repository

import (
	"context"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return translate(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *CustomerRepository) Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, customerID).
		First(&customer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *CustomerRepository) GetByReferralCode(ctx context.Context, code string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&customer).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// SetReferralCode assigns a personal code only if the customer has none.
func (r *CustomerRepository) SetReferralCode(ctx context.Context, customerID uuid.UUID, code string) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ? AND referral_code IS NULL", customerID).
		Update("referral_code", code)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *CustomerRepository) SetReferredBy(ctx context.Context, tenantID, customerID uuid.UUID, code string) error {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("tenant_id = ? AND id = ?", tenantID, customerID).
		Update("referred_by_code", code)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
