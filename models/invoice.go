package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceType string

const (
	InvoiceTypeInvoice  InvoiceType = "invoice"
	InvoiceTypeProforma InvoiceType = "proforma"
)

type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string      `gorm:"uniqueIndex;not null"`
	Type          InvoiceType `gorm:"type:varchar(20);not null;default:'invoice'"`
	CustomerID    uuid.UUID   `gorm:"type:uuid;index;not null"`
	OrderID       *uuid.UUID  `gorm:"type:uuid;index"`
	TemplateID    *uuid.UUID  `gorm:"type:uuid;index"`
	IssueDate     time.Time
	DueDate       time.Time

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	PaymentStatus string `gorm:"type:varchar(20);default:'unpaid'"`
	Notes         string

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Description string          `gorm:"not null"`
	Quantity    int             `gorm:"default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);default:0"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// InvoiceSequence is a tenant's running counter for one document type and
// series (a year, or an explicit series id).
type InvoiceSequence struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_sequence,priority:1"`
	DocType   InvoiceType `gorm:"type:varchar(20);not null;uniqueIndex:idx_invoice_sequence,priority:2"`
	Series    string      `gorm:"type:varchar(40);not null;uniqueIndex:idx_invoice_sequence,priority:3"`
	LastValue int64       `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (s *InvoiceSequence) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
