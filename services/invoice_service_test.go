package services

import (
	"context"
	"testing"
	"time"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineAmounts(t *testing.T) {
	cases := []struct {
		qty                   int
		unit, rate            string
		subtotal, tax, total string
	}{
		{1, "100.00", "21", "100", "21", "121"},
		{3, "19.99", "10", "59.97", "6", "65.97"},
		{2, "0.335", "0", "0.67", "0", "0.67"},
		{1, "10.00", "7.5", "10", "0.75", "10.75"},
	}
	for _, tc := range cases {
		sub, tax, total := LineAmounts(tc.qty, dec(tc.unit), dec(tc.rate))
		assert.True(t, sub.Equal(dec(tc.subtotal)), "subtotal %s", sub)
		assert.True(t, tax.Equal(dec(tc.tax)), "tax %s", tax)
		assert.True(t, total.Equal(dec(tc.total)), "total %s", total)
	}
}

func TestCreateInvoiceFromOrder(t *testing.T) {
	tenant := &models.Tenant{ID: uuid.New(), DefaultPaymentTermDays: 30}
	customer := &models.Customer{ID: uuid.New(), TenantID: tenant.ID, Name: "Eva", Email: "eva@example.com"}
	order := newOrder(models.OrderStatusConfirmed)
	order.TenantID = tenant.ID
	order.CustomerID = customer.ID
	order.Items = []models.OrderItem{
		{Description: "Performance", Quantity: 1, UnitPrice: dec("800.00"), TaxRate: dec("21")},
		{Description: "Travel", Quantity: 2, UnitPrice: dec("45.50"), TaxRate: dec("0")},
	}

	invoices := &fakeInvoiceWriter{}
	mailer := &fakeMailer{}
	svc := NewInvoiceService(newFakeOrderStore(order), newFakeCustomerStore(customer), &fakeTenants{tenant: tenant}, invoices, &fakeNumbers{}, mailer, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, time.April, 2, 15, 0, 0, 0, time.UTC) }

	res, err := svc.CreateInvoiceFromOrder(context.Background(), tenant.ID, order.ID, InvoiceOptions{Type: models.InvoiceTypeProforma, SendEmail: true})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "INV-TEST-001", res.InvoiceNumber)
	assert.Empty(t, res.Message)

	require.Len(t, invoices.created, 1)
	inv := invoices.created[0]
	assert.Equal(t, models.InvoiceTypeProforma, inv.Type)
	assert.Equal(t, order.ID, *inv.OrderID)
	assert.Equal(t, day(2024, time.April, 2), inv.IssueDate)
	assert.Equal(t, day(2024, time.May, 2), inv.DueDate)
	assert.True(t, inv.Subtotal.Equal(dec("891")), inv.Subtotal.String())
	assert.True(t, inv.Tax.Equal(dec("168")), inv.Tax.String())
	assert.True(t, inv.Total.Equal(dec("1059")), inv.Total.String())

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "eva@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "Proforma")
}

func TestCreateInvoiceFromOrder_NoItems(t *testing.T) {
	order := newOrder(models.OrderStatusConfirmed)
	invoices := &fakeInvoiceWriter{}
	svc := NewInvoiceService(newFakeOrderStore(order), newFakeCustomerStore(), nil, invoices, &fakeNumbers{}, nil, zap.NewNop())

	res, err := svc.CreateInvoiceFromOrder(context.Background(), order.TenantID, order.ID, InvoiceOptions{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.Empty(t, invoices.created)
}

func TestCreateInvoiceFromOrder_EmailWarnings(t *testing.T) {
	customer := &models.Customer{ID: uuid.New(), Name: "Eva"}
	order := newOrder(models.OrderStatusConfirmed)
	customer.TenantID = order.TenantID
	order.CustomerID = customer.ID
	order.Items = []models.OrderItem{{Description: "Lesson", Quantity: 1, UnitPrice: dec("30")}}

	svc := NewInvoiceService(newFakeOrderStore(order), newFakeCustomerStore(customer), nil, &fakeInvoiceWriter{}, &fakeNumbers{}, nil, zap.NewNop())
	res, err := svc.CreateInvoiceFromOrder(context.Background(), order.TenantID, order.ID, InvoiceOptions{SendEmail: true})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "not configured")

	svc = NewInvoiceService(newFakeOrderStore(order), newFakeCustomerStore(customer), nil, &fakeInvoiceWriter{}, &fakeNumbers{}, &fakeMailer{}, zap.NewNop())
	res, err = svc.CreateInvoiceFromOrder(context.Background(), order.TenantID, order.ID, InvoiceOptions{SendEmail: true})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "no email")
}

func TestCreateInvoiceFromOrder_Failures(t *testing.T) {
	order := newOrder(models.OrderStatusConfirmed)
	order.Items = []models.OrderItem{{Description: "Lesson", Quantity: 1, UnitPrice: dec("30")}}

	svc := NewInvoiceService(newFakeOrderStore(order), newFakeCustomerStore(), nil, &fakeInvoiceWriter{}, &fakeNumbers{}, nil, zap.NewNop())
	_, err := svc.CreateInvoiceFromOrder(context.Background(), order.TenantID, uuid.New(), InvoiceOptions{})
	assert.ErrorIs(t, err, ErrNotFound)

	svc = NewInvoiceService(newFakeOrderStore(order), newFakeCustomerStore(), nil, &fakeInvoiceWriter{}, &fakeNumbers{err: errBoom}, nil, zap.NewNop())
	_, err = svc.CreateInvoiceFromOrder(context.Background(), order.TenantID, order.ID, InvoiceOptions{})
	assert.ErrorIs(t, err, errBoom)

	writer := &fakeInvoiceWriter{failFor: map[uuid.UUID]bool{order.CustomerID: true}}
	svc = NewInvoiceService(newFakeOrderStore(order), newFakeCustomerStore(), nil, writer, &fakeNumbers{}, nil, zap.NewNop())
	_, err = svc.CreateInvoiceFromOrder(context.Background(), order.TenantID, order.ID, InvoiceOptions{})
	assert.ErrorIs(t, err, errBoom)
}
