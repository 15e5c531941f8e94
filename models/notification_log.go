package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	ReferralID   *uuid.UUID `gorm:"type:uuid;index"`
	Recipient    string     `gorm:"type:varchar(120)"`
	Type         string     `gorm:"type:varchar(20)"` // invite, referral, invoice
	Message      string     `gorm:"type:text"`
	Status       string     `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string     `gorm:"type:text"`
	Channel      string     `gorm:"type:varchar(20)"` // whatsapp, sms, email, calendar
	SentAt       time.Time
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
