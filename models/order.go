package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusNew          OrderStatus = "new"
	OrderStatusReviewing    OrderStatus = "reviewing"
	OrderStatusAwaitingInfo OrderStatus = "awaiting_info"
	OrderStatusQuoteSent    OrderStatus = "quote_sent"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusApproved     OrderStatus = "approved"
	OrderStatusCompleted    OrderStatus = "completed"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// Order is a customer booking. Its status is only changed through the
// order workflow; orders are cancelled, never deleted.
type Order struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID   `gorm:"type:uuid;index;not null"`
	CustomerID uuid.UUID   `gorm:"type:uuid;index;not null"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;default:'new'"`

	Title     string `gorm:"not null"`
	EventDate *time.Time
	Venue     string
	Notes     string

	Items        []OrderItem        `gorm:"foreignKey:OrderID"`
	Participants []OrderParticipant `gorm:"foreignKey:OrderID"`
	Invoices     []Invoice          `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusNew
	}
	return
}

type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Description string          `gorm:"not null"`
	Quantity    int             `gorm:"default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);default:0"` // percent
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// OrderParticipant is a person invited to the booked event.
type OrderParticipant struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name    string    `gorm:"not null"`
	Email   string
	Phone   string
	Role    string `gorm:"type:varchar(40)"`
}

func (p *OrderParticipant) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// OrderStatusChange is the audit trail of applied transitions.
type OrderStatusChange struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID   `gorm:"type:uuid;index;not null"`
	OrderID    uuid.UUID   `gorm:"type:uuid;index;not null"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null"`
	ChangedBy  string
	Note       string `gorm:"type:text"`
	ChangedAt  time.Time
}

func (c *OrderStatusChange) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
