package repository

import (
	"context"
	"time"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Register creates the tenant and its owner account together.
func (r *UserRepository) Register(ctx context.Context, tenant *models.Tenant, owner *models.User) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		owner.TenantID = tenant.ID
		return tx.Create(owner).Error
	}))
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return translate(r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error)
}
