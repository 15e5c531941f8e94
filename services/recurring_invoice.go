package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TemplateStore interface {
	ListDue(ctx context.Context, asOf time.Time) ([]models.RecurringInvoiceTemplate, error)
	Advance(ctx context.Context, template *models.RecurringInvoiceTemplate) error
	Deactivate(ctx context.Context, templateID uuid.UUID) error
}

type TemplateError struct {
	TemplateID uuid.UUID `json:"templateId"`
	Message    string    `json:"message"`
}

type ProcessSummary struct {
	Processed   int             `json:"processed"`
	Created     int             `json:"created"`
	Deactivated int             `json:"deactivated"`
	Errors      []TemplateError `json:"errors"`
}

// NextGenerationDate adds one frequency unit to from. Month based
// frequencies clamp to the last day of the target month.
func NextGenerationDate(from time.Time, freq models.Frequency) (time.Time, error) {
	switch freq {
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7), nil
	case models.FrequencyMonthly:
		return utils.AddMonthsClamped(from, 1), nil
	case models.FrequencyQuarterly:
		return utils.AddMonthsClamped(from, 3), nil
	case models.FrequencyYearly:
		return utils.AddMonthsClamped(from, 12), nil
	default:
		return time.Time{}, fmt.Errorf("unknown frequency %q", freq)
	}
}

// RecurringInvoiceService turns due recurring templates into invoices. It
// assumes a single running instance; overlapping runs can bill a due date
// twice.
type RecurringInvoiceService struct {
	templates TemplateStore
	invoices  InvoiceWriter
	numbers   NumberGenerator
	log       *zap.Logger
	now       func() time.Time
}

func NewRecurringInvoiceService(templates TemplateStore, invoices InvoiceWriter, numbers NumberGenerator, log *zap.Logger) *RecurringInvoiceService {
	return &RecurringInvoiceService{
		templates: templates,
		invoices:  invoices,
		numbers:   numbers,
		log:       log,
		now:       time.Now,
	}
}

// ProcessDueTemplates generates one invoice for every active template due on
// or before today. Failures are collected per template; the summary is
// always returned.
func (s *RecurringInvoiceService) ProcessDueTemplates(ctx context.Context, today time.Time) ProcessSummary {
	summary := ProcessSummary{Errors: []TemplateError{}}
	day := utils.BeginningOfDay(today)

	templates, err := s.templates.ListDue(ctx, day.AddDate(0, 0, 1).Add(-time.Nanosecond))
	if err != nil {
		s.log.Error("list due recurring templates", zap.Error(err))
		summary.Errors = append(summary.Errors, TemplateError{Message: "list due templates: " + err.Error()})
		return summary
	}

	for i := range templates {
		if ctx.Err() != nil {
			summary.Errors = append(summary.Errors, TemplateError{Message: ctx.Err().Error()})
			break
		}
		tpl := &templates[i]

		if tpl.EndDate != nil && utils.BeginningOfDay(tpl.NextGenerationDate).After(utils.BeginningOfDay(*tpl.EndDate)) {
			if err := s.templates.Deactivate(ctx, tpl.ID); err != nil {
				summary.Errors = append(summary.Errors, TemplateError{TemplateID: tpl.ID, Message: "deactivate: " + err.Error()})
				continue
			}
			summary.Deactivated++
			s.log.Info("recurring template expired", zap.String("template", tpl.ID.String()))
			continue
		}

		summary.Processed++
		created, err := s.processTemplate(ctx, tpl)
		if created {
			summary.Created++
		}
		if err != nil {
			s.log.Warn("recurring invoice generation failed",
				zap.String("template", tpl.ID.String()),
				zap.String("tenant", tpl.TenantID.String()),
				zap.Error(err),
			)
			summary.Errors = append(summary.Errors, TemplateError{TemplateID: tpl.ID, Message: err.Error()})
		}
	}

	s.log.Info("recurring invoices processed",
		zap.Int("processed", summary.Processed),
		zap.Int("created", summary.Created),
		zap.Int("deactivated", summary.Deactivated),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary
}

// processTemplate reports whether an invoice was persisted, even when the
// following schedule update failed.
func (s *RecurringInvoiceService) processTemplate(ctx context.Context, tpl *models.RecurringInvoiceTemplate) (created bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	next, err := NextGenerationDate(tpl.NextGenerationDate, tpl.Frequency)
	if err != nil {
		return false, err
	}

	// numbered in the series of the issue date, not of the run
	series := strconv.Itoa(tpl.NextGenerationDate.Year())
	number, err := s.numbers.GenerateInvoiceNumber(ctx, tpl.TenantID, models.InvoiceTypeInvoice, series)
	if err != nil {
		return false, fmt.Errorf("generate invoice number: %w", err)
	}

	invoice := BuildRecurringInvoice(tpl, number)
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return false, fmt.Errorf("save invoice: %w", err)
	}

	now := s.now()
	tpl.NextGenerationDate = next
	tpl.GeneratedCount++
	tpl.LastGeneratedAt = &now
	if tpl.EndDate != nil && utils.BeginningOfDay(next).After(utils.BeginningOfDay(*tpl.EndDate)) {
		tpl.Active = false
	}
	if err := s.templates.Advance(ctx, tpl); err != nil {
		return true, fmt.Errorf("advance schedule: %w", err)
	}
	return true, nil
}

// BuildRecurringInvoice copies the template's items and stored amounts into
// a new invoice issued on the template's current generation date.
func BuildRecurringInvoice(tpl *models.RecurringInvoiceTemplate, number string) *models.Invoice {
	items := make([]models.InvoiceItem, 0, len(tpl.Items))
	for _, it := range tpl.Items {
		items = append(items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			TaxAmount:   it.TaxAmount,
			Total:       it.Total,
		})
	}
	subtotal, tax, total := SumItems(items)

	issued := tpl.NextGenerationDate
	terms := tpl.PaymentTermDays
	if terms <= 0 {
		terms = 14
	}
	templateID := tpl.ID
	return &models.Invoice{
		TenantID:      tpl.TenantID,
		InvoiceNumber: number,
		Type:          models.InvoiceTypeInvoice,
		CustomerID:    tpl.CustomerID,
		TemplateID:    &templateID,
		IssueDate:     issued,
		DueDate:       issued.AddDate(0, 0, terms),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentStatus: "unpaid",
		Notes:         tpl.Notes,
		Items:         items,
	}
}
