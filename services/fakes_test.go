package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/repository"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeOrderStore struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]*models.Order
	changes    []models.OrderStatusChange
	hasInvoice bool
	hasErr     error
	updateErr  error
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: map[uuid.UUID]*models.Order{}}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *fakeOrderStore) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) UpdateStatus(ctx context.Context, order *models.Order, change *models.OrderStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	stored := s.orders[order.ID]
	if stored.Status != change.FromStatus {
		return repository.ErrConflict
	}
	stored.Status = order.Status
	s.changes = append(s.changes, *change)
	return nil
}

func (s *fakeOrderStore) HasInvoice(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	return s.hasInvoice, s.hasErr
}

func (s *fakeOrderStore) status(id uuid.UUID) models.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

type fakeInvoicer struct {
	calls  []InvoiceOptions
	result InvoiceResult
	err    error
	panic  bool
}

func (f *fakeInvoicer) CreateInvoiceFromOrder(ctx context.Context, tenantID, orderID uuid.UUID, opts InvoiceOptions) (InvoiceResult, error) {
	f.calls = append(f.calls, opts)
	if f.panic {
		panic("invoicer exploded")
	}
	return f.result, f.err
}

type fakeNotifier struct {
	calls   []InviteRequest
	summary InviteSummary
	err     error
	panic   bool
}

func (f *fakeNotifier) SendParticipantInvites(ctx context.Context, req InviteRequest) (InviteSummary, error) {
	f.calls = append(f.calls, req)
	if f.panic {
		panic("notifier exploded")
	}
	return f.summary, f.err
}

type fakeInvoiceWriter struct {
	created []*models.Invoice
	// failFor makes Create fail for invoices of these customers
	failFor map[uuid.UUID]bool
}

func (f *fakeInvoiceWriter) Create(ctx context.Context, invoice *models.Invoice) error {
	if f.failFor[invoice.CustomerID] {
		return errBoom
	}
	f.created = append(f.created, invoice)
	return nil
}

type fakeNumbers struct {
	n      int
	err    error
	series []string
}

func (f *fakeNumbers) GenerateInvoiceNumber(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType, seriesID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.n++
	f.series = append(f.series, seriesID)
	return fmt.Sprintf("INV-TEST-%03d", f.n), nil
}

type fakeTemplateStore struct {
	due         []models.RecurringInvoiceTemplate
	listErr     error
	advanced    []models.RecurringInvoiceTemplate
	advanceErr  error
	deactivated []uuid.UUID
	lastAsOf    time.Time
}

func (f *fakeTemplateStore) ListDue(ctx context.Context, asOf time.Time) ([]models.RecurringInvoiceTemplate, error) {
	f.lastAsOf = asOf
	return f.due, f.listErr
}

func (f *fakeTemplateStore) Advance(ctx context.Context, template *models.RecurringInvoiceTemplate) error {
	if f.advanceErr != nil {
		return f.advanceErr
	}
	f.advanced = append(f.advanced, *template)
	return nil
}

func (f *fakeTemplateStore) Deactivate(ctx context.Context, templateID uuid.UUID) error {
	f.deactivated = append(f.deactivated, templateID)
	return nil
}

type fakeReferralStore struct {
	codes     map[string]*models.Referral
	taken     map[string]bool
	existsFn  func(code string) bool
	checks    int
	usedIDs   []uuid.UUID
	expired   []uuid.UUID
	markErr   error
	createErr error
}

func newFakeReferralStore() *fakeReferralStore {
	return &fakeReferralStore{codes: map[string]*models.Referral{}, taken: map[string]bool{}}
}

func (f *fakeReferralStore) Create(ctx context.Context, r *models.Referral) error {
	if f.createErr != nil {
		return f.createErr
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.codes[r.Code] = r
	f.taken[r.Code] = true
	return nil
}

func (f *fakeReferralStore) CodeExists(ctx context.Context, code string) (bool, error) {
	f.checks++
	if f.existsFn != nil {
		return f.existsFn(code), nil
	}
	return f.taken[code], nil
}

func (f *fakeReferralStore) GetByCode(ctx context.Context, code string) (*models.Referral, error) {
	r, ok := f.codes[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReferralStore) MarkUsed(ctx context.Context, tenantID, referralID, customerID uuid.UUID, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.usedIDs = append(f.usedIDs, referralID)
	return nil
}

func (f *fakeReferralStore) MarkExpired(ctx context.Context, referralID uuid.UUID) error {
	f.expired = append(f.expired, referralID)
	return nil
}

type fakeCustomerStore struct {
	customers  map[uuid.UUID]*models.Customer
	referredBy map[uuid.UUID]string
}

func newFakeCustomerStore(customers ...*models.Customer) *fakeCustomerStore {
	s := &fakeCustomerStore{customers: map[uuid.UUID]*models.Customer{}, referredBy: map[uuid.UUID]string{}}
	for _, c := range customers {
		s.customers[c.ID] = c
	}
	return s
}

func (s *fakeCustomerStore) Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error) {
	c, ok := s.customers[customerID]
	if !ok || c.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCustomerStore) GetByReferralCode(ctx context.Context, code string) (*models.Customer, error) {
	for _, c := range s.customers {
		if c.ReferralCode != nil && *c.ReferralCode == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeCustomerStore) SetReferralCode(ctx context.Context, customerID uuid.UUID, code string) error {
	c, ok := s.customers[customerID]
	if !ok {
		return repository.ErrNotFound
	}
	if c.ReferralCode != nil {
		return repository.ErrConflict
	}
	c.ReferralCode = &code
	return nil
}

func (s *fakeCustomerStore) SetReferredBy(ctx context.Context, tenantID, customerID uuid.UUID, code string) error {
	if c, ok := s.customers[customerID]; !ok || c.TenantID != tenantID {
		return repository.ErrNotFound
	}
	s.referredBy[customerID] = code
	return nil
}

type fakeMessenger struct {
	sent []string
	err  error
}

func (f *fakeMessenger) SendMessage(ctx context.Context, to, body string) (string, error) {
	if f.err != nil {
		return ChannelSMS, f.err
	}
	f.sent = append(f.sent, to)
	return ChannelSMS, nil
}

type fakeMailer struct {
	sent    []Email
	failFor map[string]bool
}

func (f *fakeMailer) Send(ctx context.Context, email Email) error {
	if f.failFor[email.To] {
		return errBoom
	}
	f.sent = append(f.sent, email)
	return nil
}

type fakeCalendar struct {
	events []CalendarEvent
	err    error
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, event CalendarEvent) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.events = append(f.events, event)
	return "evt-1", nil
}

type fakeNotificationLogs struct {
	entries []*models.NotificationLog
}

func (f *fakeNotificationLogs) Create(ctx context.Context, entry *models.NotificationLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeSequences struct {
	values map[string]int64
}

func (f *fakeSequences) NextSequence(ctx context.Context, tenantID uuid.UUID, docType models.InvoiceType, series string) (int64, error) {
	if f.values == nil {
		f.values = map[string]int64{}
	}
	key := tenantID.String() + "/" + string(docType) + "/" + series
	f.values[key]++
	return f.values[key], nil
}

type fakeTenants struct {
	tenant *models.Tenant
}

func (f *fakeTenants) Get(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	if f.tenant == nil || f.tenant.ID != tenantID {
		return nil, repository.ErrNotFound
	}
	return f.tenant, nil
}
