package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is an isolated customer account of the platform. One tenant runs
// one vertical (musicians, photographers, event planners, ...).
type Tenant struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Name     string    `gorm:"not null"`
	Vertical string    `gorm:"type:varchar(40)"`

	InvoicingConfigured    bool   `gorm:"default:false"`
	AutoCreateProforma     bool   `gorm:"default:false"`
	DefaultPaymentTermDays int    `gorm:"default:14"`
	InvoicePrefix          string `gorm:"type:varchar(10)"`

	Users     []User     `gorm:"foreignKey:TenantID"`
	Customers []Customer `gorm:"foreignKey:TenantID"`
	Orders    []Order    `gorm:"foreignKey:TenantID"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// TenantSettings is the read-only view of tenant flags the order workflow
// depends on.
type TenantSettings struct {
	IsConfigured       bool
	AutoCreateProforma bool
}

func (t Tenant) Settings() TenantSettings {
	return TenantSettings{
		IsConfigured:       t.InvoicingConfigured,
		AutoCreateProforma: t.AutoCreateProforma,
	}
}
