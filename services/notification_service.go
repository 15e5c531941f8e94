package services

import (
	"context"
	"fmt"
	"time"

	"vertigo-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InviteRequest struct {
	TenantID     uuid.UUID
	OrderID      uuid.UUID
	SendCalendar bool
	SendEmail    bool
}

type InviteSummary struct {
	ParticipantCount int      `json:"participantCount"`
	CalendarEvents   []string `json:"calendarEvents"`
	EmailsSent       int      `json:"emailsSent"`
	SMSSent          int      `json:"smsSent"`
	Errors           []string `json:"errors"`
}

type NotificationLogger interface {
	Create(ctx context.Context, entry *models.NotificationLog) error
}

// NotificationService invites order participants through a calendar
// service, email, and SMS/WhatsApp. Every delivery is attempted
// independently and failures are collected in the summary.
type NotificationService struct {
	orders    OrderReader
	calendar  CalendarClient
	mailer    Mailer
	messenger Messenger
	logs      NotificationLogger
	log       *zap.Logger
	now       func() time.Time
}

func NewNotificationService(orders OrderReader, calendar CalendarClient, mailer Mailer, messenger Messenger, logs NotificationLogger, log *zap.Logger) *NotificationService {
	return &NotificationService{
		orders:    orders,
		calendar:  calendar,
		mailer:    mailer,
		messenger: messenger,
		logs:      logs,
		log:       log,
		now:       time.Now,
	}
}

func (s *NotificationService) SendParticipantInvites(ctx context.Context, req InviteRequest) (InviteSummary, error) {
	summary := InviteSummary{CalendarEvents: []string{}, Errors: []string{}}

	order, err := s.orders.Get(ctx, req.TenantID, req.OrderID)
	if err != nil {
		return summary, notFound("order", err)
	}
	summary.ParticipantCount = len(order.Participants)
	if summary.ParticipantCount == 0 {
		return summary, nil
	}

	if req.SendCalendar {
		s.sendCalendarEvent(ctx, order, &summary)
	}

	for _, p := range order.Participants {
		if req.SendEmail && p.Email != "" {
			s.sendEmail(ctx, order, p, &summary)
		}
		if p.Phone != "" && s.messenger != nil {
			s.sendMessage(ctx, order, p, &summary)
		}
	}

	s.log.Info("participant invites sent",
		zap.String("order", order.ID.String()),
		zap.Int("participants", summary.ParticipantCount),
		zap.Int("calendar_events", len(summary.CalendarEvents)),
		zap.Int("emails", summary.EmailsSent),
		zap.Int("sms", summary.SMSSent),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

func (s *NotificationService) sendCalendarEvent(ctx context.Context, order *models.Order, summary *InviteSummary) {
	if s.calendar == nil {
		summary.Errors = append(summary.Errors, "calendar: not configured")
		return
	}
	if order.EventDate == nil {
		summary.Errors = append(summary.Errors, "calendar: order has no event date")
		return
	}

	attendees := make([]CalendarAttendee, 0, len(order.Participants))
	for _, p := range order.Participants {
		attendees = append(attendees, CalendarAttendee{Name: p.Name, Email: p.Email})
	}
	id, err := s.calendar.CreateEvent(ctx, CalendarEvent{
		Title:     order.Title,
		Start:     *order.EventDate,
		End:       order.EventDate.Add(2 * time.Hour),
		Location:  order.Venue,
		Reference: order.ID.String(),
		Attendees: attendees,
	})
	s.record(ctx, order, "", ChannelCalendar, order.Title, err)
	if err != nil {
		summary.Errors = append(summary.Errors, "calendar: "+err.Error())
		return
	}
	summary.CalendarEvents = append(summary.CalendarEvents, id)
}

func (s *NotificationService) sendEmail(ctx context.Context, order *models.Order, p models.OrderParticipant, summary *InviteSummary) {
	if s.mailer == nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("email %s: not configured", p.Email))
		return
	}
	email := Email{
		To:      p.Email,
		Subject: "You're invited: " + order.Title,
		Text:    inviteText(order, p),
	}
	err := s.mailer.Send(ctx, email)
	s.record(ctx, order, p.Email, ChannelEmail, email.Text, err)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("email %s: %v", p.Email, err))
		return
	}
	summary.EmailsSent++
}

func (s *NotificationService) sendMessage(ctx context.Context, order *models.Order, p models.OrderParticipant, summary *InviteSummary) {
	body := inviteText(order, p)
	channel, err := s.messenger.SendMessage(ctx, p.Phone, body)
	s.record(ctx, order, p.Phone, channel, body, err)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s %s: %v", channel, p.Phone, err))
		return
	}
	summary.SMSSent++
}

func (s *NotificationService) record(ctx context.Context, order *models.Order, recipient, channel, message string, sendErr error) {
	if s.logs == nil {
		return
	}
	orderID := order.ID
	entry := &models.NotificationLog{
		TenantID:  order.TenantID,
		OrderID:   &orderID,
		Recipient: recipient,
		Type:      "invite",
		Message:   message,
		Status:    "sent",
		Channel:   channel,
		SentAt:    s.now(),
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.log.Warn("failed to log notification", zap.String("order", order.ID.String()), zap.Error(err))
	}
}

func inviteText(order *models.Order, p models.OrderParticipant) string {
	when := "date to be announced"
	if order.EventDate != nil {
		when = order.EventDate.Format("Mon, 02 Jan 2006 15:04")
	}
	text := fmt.Sprintf("Hi %s, you are part of %q on %s", p.Name, order.Title, when)
	if order.Venue != "" {
		text += " at " + order.Venue
	}
	return text + "."
}
