package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Phone    string
	Email    string
	Notes    string
	IsActive bool `gorm:"default:true"`

	// ReferralCode is the customer's standing personal code. It never expires
	// and is never used up.
	ReferralCode   *string `gorm:"type:varchar(20);uniqueIndex"`
	ReferredByCode string  `gorm:"type:varchar(20)"`

	Invoices []Invoice `gorm:"foreignKey:CustomerID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
