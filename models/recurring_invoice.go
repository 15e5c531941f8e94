package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// RecurringInvoiceTemplate is a billing schedule. NextGenerationDate moves
// forward by exactly one Frequency unit per generated invoice. Expired
// templates are deactivated, not deleted.
type RecurringInvoiceTemplate struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name       string    `gorm:"not null"`

	Frequency          Frequency `gorm:"type:varchar(20);not null"`
	NextGenerationDate time.Time `gorm:"index;not null"`
	EndDate            *time.Time
	Active             bool `gorm:"index;default:true"`
	PaymentTermDays    int  `gorm:"default:14"`
	Notes              string

	GeneratedCount  int `gorm:"default:0"`
	LastGeneratedAt *time.Time

	Items []RecurringInvoiceItem `gorm:"foreignKey:TemplateID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *RecurringInvoiceTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// RecurringInvoiceItem stores precomputed per-item amounts. Generated
// invoices copy them as-is.
type RecurringInvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TemplateID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Description string          `gorm:"not null"`
	Quantity    int             `gorm:"default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);default:0"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *RecurringInvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
