package repository

import (
	"context"
	"errors"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create saves the invoice together with its items.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return translate(r.db.WithContext(ctx).Create(invoice).Error)
}

func (r *InvoiceRepository) ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at").
		Find(&invoices).Error
	return invoices, translate(err)
}

// ListByTemplate returns the invoices a recurring template has produced.
func (r *InvoiceRepository) ListByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND template_id = ?", tenantID, templateID).
		Order("issue_date").
		Find(&invoices).Error
	return invoices, translate(err)
}

// NextSequence returns the next counter value for a tenant's document type
// and series, creating the sequence on first use.
func (r *InvoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType, series string) (int64, error) {
	next, err := r.nextSequence(ctx, tenantID, docType, series)
	if errors.Is(err, ErrAlreadyExists) {
		// another writer created the row first
		next, err = r.nextSequence(ctx, tenantID, docType, series)
	}
	return next, err
}

func (r *InvoiceRepository) nextSequence(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType, series string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq models.InvoiceSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("tenant_id = ? AND doc_type = ? AND series = ?", tenantID, docType, series).
			First(&seq).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			seq = models.InvoiceSequence{TenantID: tenantID, DocType: docType, Series: series, LastValue: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return translate(err)
			}
		case err != nil:
			return translate(err)
		default:
			seq.LastValue++
			if err := tx.Model(&seq).Update("last_value", seq.LastValue).Error; err != nil {
				return translate(err)
			}
		}
		next = seq.LastValue
		return nil
	})
	return next, err
}
