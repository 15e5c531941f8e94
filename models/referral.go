package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralStatus string

const (
	ReferralStatusPending ReferralStatus = "pending"
	ReferralStatusUsed    ReferralStatus = "used"
	ReferralStatusExpired ReferralStatus = "expired"
)

// Referral is an invitation code. Status only moves pending -> used or
// pending -> expired.
type Referral struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Code       string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	ReferrerID uuid.UUID `gorm:"type:uuid;index;not null"`

	ReferredName  string
	ReferredEmail string
	ReferredPhone string

	Status           ReferralStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ExpiresAt        time.Time
	UsedAt           *time.Time
	UsedByCustomerID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Referral) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// IsExpired reports whether the referral can no longer be used at now.
func (r Referral) IsExpired(now time.Time) bool {
	return r.Status == ReferralStatusExpired || !now.Before(r.ExpiresAt)
}
