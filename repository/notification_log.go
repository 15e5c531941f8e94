package repository

import (
	"context"

	"vertigo-backend/models"

	"gorm.io/gorm"
)

type NotificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

func (r *NotificationLogRepository) Create(ctx context.Context, entry *models.NotificationLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}
