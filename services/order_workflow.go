package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/repository"
	"vertigo-backend/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SideEffectProforma = "proforma_invoice"
	SideEffectInvites  = "participant_invites"
)

type OrderStore interface {
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order, change *models.OrderStatusChange) error
	HasInvoice(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error)
}

type Invoicer interface {
	CreateInvoiceFromOrder(ctx context.Context, tenantID, orderID uuid.UUID, opts InvoiceOptions) (InvoiceResult, error)
}

type ParticipantNotifier interface {
	SendParticipantInvites(ctx context.Context, req InviteRequest) (InviteSummary, error)
}

type ChangeMetadata struct {
	ChangedBy string
	Note      string
}

// SideEffectOutcome reports one downstream action triggered by a status
// change. A failed side effect never undoes the change itself.
type SideEffectOutcome struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type StatusChangeResult struct {
	Order           *models.Order       `json:"order"`
	PreviousStatus  models.OrderStatus  `json:"previousStatus"`
	SideEffects     []SideEffectOutcome `json:"sideEffects"`
	ProformaCreated bool                `json:"proformaCreated"`
	InvoiceNumber   string              `json:"invoiceNumber,omitempty"`
	Invitations     *InviteSummary      `json:"invitations,omitempty"`
}

// Warnings lists the failed side effects as human readable messages.
func (r StatusChangeResult) Warnings() []string {
	var out []string
	for _, se := range r.SideEffects {
		if !se.Success {
			out = append(out, fmt.Sprintf("%s: %s", se.Name, se.Error))
		}
	}
	return out
}

type OrderWorkflowService struct {
	orders   OrderStore
	invoicer Invoicer
	notifier ParticipantNotifier
	log      *zap.Logger
	now      func() time.Time
}

func NewOrderWorkflowService(orders OrderStore, invoicer Invoicer, notifier ParticipantNotifier, log *zap.Logger) *OrderWorkflowService {
	return &OrderWorkflowService{
		orders:   orders,
		invoicer: invoicer,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// ApplyStatusChange moves an order to next. The new status is committed
// first; entering confirmed then triggers proforma creation and participant
// invitations, both best effort.
func (s *OrderWorkflowService) ApplyStatusChange(ctx context.Context, tenantID, orderID uuid.UUID, next models.OrderStatus, meta ChangeMetadata, settings models.TenantSettings) (*StatusChangeResult, error) {
	if !workflow.IsKnown(next) {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", next)}
	}

	order, err := s.orders.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, notFound("order", err)
	}

	previous := order.Status
	if !workflow.IsValidTransition(previous, next) {
		return nil, &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot change status from %s to %s", previous, next),
			Err:     ErrInvalidTransition,
		}
	}

	order.Status = next
	change := &models.OrderStatusChange{
		TenantID:   tenantID,
		OrderID:    orderID,
		FromStatus: previous,
		ToStatus:   next,
		ChangedBy:  meta.ChangedBy,
		Note:       meta.Note,
		ChangedAt:  s.now(),
	}
	if err := s.orders.UpdateStatus(ctx, order, change); err != nil {
		order.Status = previous
		if errors.Is(err, repository.ErrConflict) {
			return nil, &ValidationError{Field: "status", Message: "order status was changed by someone else", Err: ErrInvalidTransition}
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.log.Info("order status changed",
		zap.String("tenant", tenantID.String()),
		zap.String("order", orderID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)

	result := &StatusChangeResult{Order: order, PreviousStatus: previous, SideEffects: []SideEffectOutcome{}}
	if next == models.OrderStatusConfirmed && previous != models.OrderStatusConfirmed {
		s.onConfirmed(ctx, order, settings, result)
	}
	return result, nil
}

func (s *OrderWorkflowService) onConfirmed(ctx context.Context, order *models.Order, settings models.TenantSettings, result *StatusChangeResult) {
	if s.invoicer != nil && settings.IsConfigured && settings.AutoCreateProforma {
		if outcome, ok := s.createProforma(ctx, order, result); ok {
			result.SideEffects = append(result.SideEffects, outcome)
		}
	}

	if s.notifier != nil {
		outcome := s.runSideEffect(order, SideEffectInvites, func() error {
			summary, err := s.notifier.SendParticipantInvites(ctx, InviteRequest{
				TenantID:     order.TenantID,
				OrderID:      order.ID,
				SendCalendar: true,
				SendEmail:    true,
			})
			if err != nil {
				return err
			}
			result.Invitations = &summary
			if len(summary.Errors) > 0 {
				return errors.New(strings.Join(summary.Errors, "; "))
			}
			return nil
		})
		result.SideEffects = append(result.SideEffects, outcome)
	}
}

// createProforma reports false when no attempt was made because the order
// already has an invoice.
func (s *OrderWorkflowService) createProforma(ctx context.Context, order *models.Order, result *StatusChangeResult) (SideEffectOutcome, bool) {
	attempted := true
	outcome := s.runSideEffect(order, SideEffectProforma, func() error {
		exists, err := s.orders.HasInvoice(ctx, order.TenantID, order.ID)
		if err != nil {
			return fmt.Errorf("check existing invoices: %w", err)
		}
		if exists {
			attempted = false
			return nil
		}
		res, err := s.invoicer.CreateInvoiceFromOrder(ctx, order.TenantID, order.ID, InvoiceOptions{
			Type:      models.InvoiceTypeProforma,
			SendEmail: true,
		})
		if err != nil {
			return err
		}
		if !res.Success {
			if res.Message == "" {
				return errors.New("invoice was not created")
			}
			return errors.New(res.Message)
		}
		result.ProformaCreated = true
		result.InvoiceNumber = res.InvoiceNumber
		return nil
	})
	return outcome, attempted
}

// runSideEffect converts errors and panics from fn into an outcome.
func (s *OrderWorkflowService) runSideEffect(order *models.Order, name string, fn func() error) (outcome SideEffectOutcome) {
	outcome = SideEffectOutcome{Name: name}
	defer func() {
		if r := recover(); r != nil {
			outcome.Success = false
			outcome.Error = fmt.Sprintf("panic: %v", r)
		}
		if !outcome.Success {
			s.log.Warn("order side effect failed",
				zap.String("order", order.ID.String()),
				zap.String("side_effect", name),
				zap.String("error", outcome.Error),
			)
		}
	}()

	if err := fn(); err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Success = true
	return outcome
}
