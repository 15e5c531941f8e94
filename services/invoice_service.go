package services

import (
	"context"
	"fmt"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type InvoiceOptions struct {
	Type      models.InvoiceType
	SendEmail bool
}

type InvoiceResult struct {
	Success       bool   `json:"success"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Message       string `json:"message,omitempty"`
}

type InvoiceWriter interface {
	Create(ctx context.Context, invoice *models.Invoice) error
}

type OrderReader interface {
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
}

type CustomerReader interface {
	Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
}

// LineAmounts computes the stored per-item amounts of an invoice line,
// rounded to cents. Tax rate is a percentage.
func LineAmounts(quantity int, unitPrice, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	tax = subtotal.Mul(taxRate).Div(hundred).Round(2)
	return subtotal, tax, subtotal.Add(tax)
}

// SumItems totals already computed line amounts without recomputing tax.
func SumItems(items []models.InvoiceItem) (subtotal, tax, total decimal.Decimal) {
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
		tax = tax.Add(item.TaxAmount)
		total = total.Add(item.Total)
	}
	return subtotal, tax, total
}

type InvoiceService struct {
	orders    OrderReader
	customers CustomerReader
	tenants   TenantReader
	invoices  InvoiceWriter
	numbers   NumberGenerator
	mailer    Mailer
	log       *zap.Logger
	now       func() time.Time
}

func NewInvoiceService(orders OrderReader, customers CustomerReader, tenants TenantReader, invoices InvoiceWriter, numbers NumberGenerator, mailer Mailer, log *zap.Logger) *InvoiceService {
	return &InvoiceService{
		orders:    orders,
		customers: customers,
		tenants:   tenants,
		invoices:  invoices,
		numbers:   numbers,
		mailer:    mailer,
		log:       log,
		now:       time.Now,
	}
}

// CreateInvoiceFromOrder bills the order's items. Business refusals come back
// as Success=false; the error return is reserved for infrastructure failures.
func (s *InvoiceService) CreateInvoiceFromOrder(ctx context.Context, tenantID, orderID uuid.UUID, opts InvoiceOptions) (InvoiceResult, error) {
	if opts.Type == "" {
		opts.Type = models.InvoiceTypeInvoice
	}

	order, err := s.orders.Get(ctx, tenantID, orderID)
	if err != nil {
		return InvoiceResult{}, notFound("order", err)
	}
	if len(order.Items) == 0 {
		return InvoiceResult{Success: false, Message: "order has no billable items"}, nil
	}

	items := make([]models.InvoiceItem, 0, len(order.Items))
	for _, it := range order.Items {
		subtotal, tax, total := LineAmounts(it.Quantity, it.UnitPrice, it.TaxRate)
		items = append(items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    subtotal,
			TaxAmount:   tax,
			Total:       total,
		})
	}

	number, err := s.numbers.GenerateInvoiceNumber(ctx, tenantID, opts.Type, "")
	if err != nil {
		return InvoiceResult{}, err
	}

	issued := utils.BeginningOfDay(s.now())
	termDays := 14
	if s.tenants != nil {
		if tenant, err := s.tenants.Get(ctx, tenantID); err == nil && tenant.DefaultPaymentTermDays > 0 {
			termDays = tenant.DefaultPaymentTermDays
		}
	}

	subtotal, tax, total := SumItems(items)
	oid := order.ID
	invoice := &models.Invoice{
		TenantID:      tenantID,
		InvoiceNumber: number,
		Type:          opts.Type,
		CustomerID:    order.CustomerID,
		OrderID:       &oid,
		IssueDate:     issued,
		DueDate:       issued.AddDate(0, 0, termDays),
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		PaymentStatus: "unpaid",
		Items:         items,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return InvoiceResult{}, fmt.Errorf("save invoice: %w", err)
	}

	s.log.Info("invoice created from order",
		zap.String("tenant", tenantID.String()),
		zap.String("order", orderID.String()),
		zap.String("number", number),
		zap.String("type", string(opts.Type)),
	)

	result := InvoiceResult{Success: true, InvoiceNumber: number}
	if opts.SendEmail {
		if msg := s.emailInvoice(ctx, invoice); msg != "" {
			result.Message = msg
		}
	}
	return result, nil
}

// emailInvoice returns a warning message when the invoice could not be sent.
func (s *InvoiceService) emailInvoice(ctx context.Context, invoice *models.Invoice) string {
	if s.mailer == nil {
		return "invoice created, email delivery is not configured"
	}
	customer, err := s.customers.Get(ctx, invoice.TenantID, invoice.CustomerID)
	if err != nil {
		return "invoice created, customer lookup failed: " + err.Error()
	}
	if customer.Email == "" {
		return "invoice created, customer has no email address"
	}

	subject := fmt.Sprintf("Invoice %s", invoice.InvoiceNumber)
	if invoice.Type == models.InvoiceTypeProforma {
		subject = fmt.Sprintf("Proforma invoice %s", invoice.InvoiceNumber)
	}
	err = s.mailer.Send(ctx, Email{
		To:      customer.Email,
		Subject: subject,
		Text: fmt.Sprintf("Hi %s,\n\nyour %s %s over %s is due on %s.",
			customer.Name, invoice.Type, invoice.InvoiceNumber,
			invoice.Total.StringFixed(2), invoice.DueDate.Format("2006-01-02")),
	})
	if err != nil {
		s.log.Warn("invoice email failed", zap.String("number", invoice.InvoiceNumber), zap.Error(err))
		return "invoice created, email failed: " + err.Error()
	}
	return ""
}
