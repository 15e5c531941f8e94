package repository

import (
	"context"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *OrderRepository) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Participants").
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// UpdateStatus stores order.Status and appends the audit row in one
// transaction. The update is conditional on the status the caller read, so
// a concurrent change surfaces as ErrConflict instead of being overwritten.
func (r *OrderRepository) UpdateStatus(ctx context.Context, order *models.Order, change *models.OrderStatusChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("tenant_id = ? AND id = ? AND status = ?", order.TenantID, order.ID, change.FromStatus).
			Update("status", order.Status)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return translate(tx.Create(change).Error)
	})
}

func (r *OrderRepository) HasInvoice(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (r *OrderRepository) History(ctx context.Context, tenantID, orderID uuid.UUID) ([]models.OrderStatusChange, error) {
	var changes []models.OrderStatusChange
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("changed_at").
		Find(&changes).Error
	return changes, translate(err)
}
