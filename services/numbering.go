package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/repository"

	"github.com/google/uuid"
)

type SequenceStore interface {
	NextSequence(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType, series string) (int64, error)
}

type TenantReader interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
}

type NumberGenerator interface {
	GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType, seriesID string) (string, error)
}

// NumberingService issues invoice numbers of the form PREFIX-SERIES-NNNNN,
// unique per tenant, document type and series. The series defaults to the
// current year.
type NumberingService struct {
	sequences SequenceStore
	tenants   TenantReader
	now       func() time.Time
}

func NewNumberingService(sequences SequenceStore, tenants TenantReader) *NumberingService {
	return &NumberingService{sequences: sequences, tenants: tenants, now: time.Now}
}

func (s *NumberingService) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType, seriesID string) (string, error) {
	prefix, err := s.prefix(ctx, tenantID, docType)
	if err != nil {
		return "", err
	}
	series := seriesID
	if series == "" {
		series = strconv.Itoa(s.now().Year())
	}

	value, err := s.sequences.NextSequence(ctx, tenantID, docType, series)
	if err != nil {
		return "", fmt.Errorf("next invoice sequence: %w", err)
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, series, value), nil
}

func (s *NumberingService) prefix(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType) (string, error) {
	if docType == models.InvoiceTypeProforma {
		return "PF", nil
	}
	if s.tenants == nil {
		return "INV", nil
	}
	tenant, err := s.tenants.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "INV", nil
		}
		return "", fmt.Errorf("load tenant: %w", err)
	}
	if tenant.InvoicePrefix == "" {
		return "INV", nil
	}
	return tenant.InvoicePrefix, nil
}
