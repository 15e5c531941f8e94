package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/repository"
	"vertigo-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferralAlphabet excludes characters that are easy to misread: 0 O 1 I L.
const ReferralAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	DefaultCodeLength   = 8
	DefaultCodeAttempts = 10
	fallbackPrefix      = "REF"
)

const (
	ReasonInvalidCode = "invalid_code"
	ReasonExpired     = "expired"
	ReasonAlreadyUsed = "already_used"
)

type ReferralStore interface {
	Create(ctx context.Context, referral *models.Referral) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetByCode(ctx context.Context, code string) (*models.Referral, error)
	MarkUsed(ctx context.Context, tenantID, referralID, customerID uuid.UUID, at time.Time) error
	MarkExpired(ctx context.Context, referralID uuid.UUID) error
}

type ReferralCustomerStore interface {
	Get(ctx context.Context, tenantID, customerID uuid.UUID) (*models.Customer, error)
	GetByReferralCode(ctx context.Context, code string) (*models.Customer, error)
	SetReferralCode(ctx context.Context, customerID uuid.UUID, code string) error
	SetReferredBy(ctx context.Context, tenantID, customerID uuid.UUID, code string) error
}

type Messenger interface {
	SendMessage(ctx context.Context, to, body string) (channel string, err error)
}

type Invitee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ReferralValidation struct {
	Valid    bool             `json:"valid"`
	Referral *models.Referral `json:"referral,omitempty"`
	Customer *models.Customer `json:"customer,omitempty"`
	Reason   string           `json:"error,omitempty"`
	DaysLeft int              `json:"daysLeft,omitempty"`
}

type InvitationResult struct {
	Referral *models.Referral `json:"referral"`
	Sent     bool             `json:"sent"`
	Warning  string           `json:"warning,omitempty"`
}

type ReferralService struct {
	referrals ReferralStore
	customers ReferralCustomerStore
	messenger Messenger
	ttl       time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewReferralService(referrals ReferralStore, customers ReferralCustomerStore, messenger Messenger, ttl time.Duration, log *zap.Logger) *ReferralService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &ReferralService{
		referrals: referrals,
		customers: customers,
		messenger: messenger,
		ttl:       ttl,
		log:       log,
		now:       time.Now,
	}
}

// NormalizeCode is how codes are compared: trimmed and upper-cased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateUniqueCode draws random codes until one is unused. After
// maxAttempts collisions it tries once more with a code two characters
// longer.
func (s *ReferralService) GenerateUniqueCode(ctx context.Context, prefix string, length, maxAttempts int) (string, error) {
	prefix = NormalizeCode(prefix)
	if length <= 0 {
		length = DefaultCodeLength
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultCodeAttempts
	}
	if len(prefix) >= length {
		return "", &ValidationError{Field: "prefix", Message: fmt.Sprintf("prefix %q leaves no room in a %d character code", prefix, length)}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := randomCode(prefix, length)
		if err != nil {
			return "", err
		}
		exists, err := s.referrals.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	code, err := randomCode(prefix, length+2)
	if err != nil {
		return "", err
	}
	exists, err := s.referrals.CodeExists(ctx, code)
	if err != nil {
		return "", fmt.Errorf("check referral code: %w", err)
	}
	if exists {
		return "", ErrCodeSpaceExhausted
	}
	s.log.Warn("referral code fell back to a longer code", zap.String("prefix", prefix), zap.Int("length", length+2))
	return code, nil
}

// PersonalPrefix derives a 3-4 letter prefix from a name, or REF when the
// name has fewer than three letters.
func PersonalPrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 4 {
				break
			}
		}
	}
	if b.Len() < 3 {
		return fallbackPrefix
	}
	return b.String()
}

func (s *ReferralService) GeneratePersonalCode(ctx context.Context, name string) (string, error) {
	return s.GenerateUniqueCode(ctx, PersonalPrefix(name), DefaultCodeLength, DefaultCodeAttempts)
}

// ValidateCode accepts pending unexpired invitations and standing personal
// codes. Expired and used invitations are reported with their own reason.
func (s *ReferralService) ValidateCode(ctx context.Context, code string) (ReferralValidation, error) {
	code = NormalizeCode(code)
	if code == "" {
		return ReferralValidation{Reason: ReasonInvalidCode}, nil
	}

	referral, err := s.referrals.GetByCode(ctx, code)
	switch {
	case err == nil:
		return s.validateReferral(ctx, referral), nil
	case !errors.Is(err, repository.ErrNotFound):
		return ReferralValidation{}, fmt.Errorf("load referral: %w", err)
	}

	customer, err := s.customers.GetByReferralCode(ctx, code)
	switch {
	case err == nil:
		return ReferralValidation{Valid: true, Customer: customer}, nil
	case errors.Is(err, repository.ErrNotFound):
		return ReferralValidation{Reason: ReasonInvalidCode}, nil
	default:
		return ReferralValidation{}, fmt.Errorf("load customer: %w", err)
	}
}

func (s *ReferralService) validateReferral(ctx context.Context, referral *models.Referral) ReferralValidation {
	switch {
	case referral.Status == models.ReferralStatusUsed:
		return ReferralValidation{Referral: referral, Reason: ReasonAlreadyUsed}
	case referral.IsExpired(s.now()):
		if referral.Status == models.ReferralStatusPending {
			if err := s.referrals.MarkExpired(ctx, referral.ID); err != nil {
				s.log.Warn("mark referral expired", zap.String("referral", referral.ID.String()), zap.Error(err))
			} else {
				referral.Status = models.ReferralStatusExpired
			}
		}
		return ReferralValidation{Referral: referral, Reason: ReasonExpired}
	default:
		return ReferralValidation{Valid: true, Referral: referral, DaysLeft: utils.DaysBetween(s.now(), referral.ExpiresAt)}
	}
}

// CreateInvitation issues a pending referral on behalf of referrerID and
// texts the invitee when a phone number is known. Delivery is best effort.
func (s *ReferralService) CreateInvitation(ctx context.Context, tenantID, referrerID uuid.UUID, invitee Invitee) (*InvitationResult, error) {
	if invitee.Phone != "" && !utils.ValidatePhone(invitee.Phone) {
		return nil, &ValidationError{Field: "phone", Message: "invalid phone number format"}
	}

	referrer, err := s.customers.Get(ctx, tenantID, referrerID)
	if err != nil {
		return nil, notFound("referrer", err)
	}

	code, err := s.GeneratePersonalCode(ctx, referrer.Name)
	if err != nil {
		return nil, err
	}

	referral := &models.Referral{
		TenantID:      tenantID,
		Code:          code,
		ReferrerID:    referrer.ID,
		ReferredName:  invitee.Name,
		ReferredEmail: invitee.Email,
		ReferredPhone: utils.CleanPhone(invitee.Phone),
		Status:        models.ReferralStatusPending,
		ExpiresAt:     s.now().Add(s.ttl),
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("save referral: %w", err)
	}

	result := &InvitationResult{Referral: referral}
	switch {
	case referral.ReferredPhone == "":
	case s.messenger == nil:
		result.Warning = "messaging is not configured"
	default:
		body := fmt.Sprintf("%s invited you! Use code %s when you sign up. Valid until %s.",
			referrer.Name, code, referral.ExpiresAt.Format("2006-01-02"))
		if _, err := s.messenger.SendMessage(ctx, referral.ReferredPhone, body); err != nil {
			s.log.Warn("referral invitation not delivered", zap.String("referral", referral.ID.String()), zap.Error(err))
			result.Warning = "invitation message failed: " + err.Error()
		} else {
			result.Sent = true
		}
	}
	return result, nil
}

// RedeemCode attributes one of the tenant's customers to the code. Invitation
// codes are used up; personal codes stay valid. Codes issued by another
// tenant are reported as invalid.
func (s *ReferralService) RedeemCode(ctx context.Context, tenantID uuid.UUID, code string, customerID uuid.UUID) (ReferralValidation, error) {
	if _, err := s.customers.Get(ctx, tenantID, customerID); err != nil {
		return ReferralValidation{}, notFound("customer", err)
	}

	v, err := s.ValidateCode(ctx, code)
	if err != nil || !v.Valid {
		return v, err
	}
	if (v.Referral != nil && v.Referral.TenantID != tenantID) || (v.Customer != nil && v.Customer.TenantID != tenantID) {
		return ReferralValidation{Reason: ReasonInvalidCode}, nil
	}
	code = NormalizeCode(code)

	if v.Referral != nil {
		if err := s.referrals.MarkUsed(ctx, tenantID, v.Referral.ID, customerID, s.now()); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ReferralValidation{Referral: v.Referral, Reason: ReasonAlreadyUsed}, nil
			}
			return ReferralValidation{}, fmt.Errorf("mark referral used: %w", err)
		}
		v.Referral.Status = models.ReferralStatusUsed
	}

	if err := s.customers.SetReferredBy(ctx, tenantID, customerID, code); err != nil {
		s.log.Warn("record referred-by code", zap.String("customer", customerID.String()), zap.Error(err))
	}
	return v, nil
}

// EnsurePersonalCode returns the customer's standing code, issuing one if
// the customer has none yet.
func (s *ReferralService) EnsurePersonalCode(ctx context.Context, tenantID, customerID uuid.UUID) (string, error) {
	customer, err := s.customers.Get(ctx, tenantID, customerID)
	if err != nil {
		return "", notFound("customer", err)
	}
	if customer.ReferralCode != nil && *customer.ReferralCode != "" {
		return *customer.ReferralCode, nil
	}

	code, err := s.GeneratePersonalCode(ctx, customer.Name)
	if err != nil {
		return "", err
	}
	if err := s.customers.SetReferralCode(ctx, customer.ID, code); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// assigned concurrently; return whatever won
			fresh, gerr := s.customers.Get(ctx, tenantID, customerID)
			if gerr == nil && fresh.ReferralCode != nil {
				return *fresh.ReferralCode, nil
			}
		}
		return "", fmt.Errorf("save personal code: %w", err)
	}
	return code, nil
}

func randomCode(prefix string, length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	b.WriteString(prefix)
	base := big.NewInt(int64(len(ReferralAlphabet)))
	for b.Len() < length {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("random code: %w", err)
		}
		b.WriteByte(ReferralAlphabet[n.Int64()])
	}
	return b.String(), nil
}
