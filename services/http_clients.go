package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

type CalendarAttendee struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type CalendarEvent struct {
	Title     string             `json:"title"`
	Start     time.Time          `json:"start"`
	End       time.Time          `json:"end"`
	Location  string             `json:"location,omitempty"`
	Reference string             `json:"reference"`
	Attendees []CalendarAttendee `json:"attendees"`
}

type CalendarClient interface {
	CreateEvent(ctx context.Context, event CalendarEvent) (string, error)
}

type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// RestCalendarClient posts events to a calendar service.
type RestCalendarClient struct {
	client *resty.Client
}

func NewRestCalendarClient(baseURL, apiKey string, timeout time.Duration) *RestCalendarClient {
	return &RestCalendarClient{
		client: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(apiKey).
			SetTimeout(timeout),
	}
}

type calendarEventAnswer struct {
	ID string `json:"id"`
}

func (c *RestCalendarClient) CreateEvent(ctx context.Context, event CalendarEvent) (string, error) {
	var answer calendarEventAnswer
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(event).
		SetResult(&answer).
		Post("/events")
	if err != nil {
		return "", err
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return answer.ID, nil
	default:
		return "", fmt.Errorf("calendar request status: %d", resp.StatusCode())
	}
}

// RestMailer hands emails to an HTTP mail relay.
type RestMailer struct {
	client *resty.Client
	from   string
}

func NewRestMailer(baseURL, apiKey, from string, timeout time.Duration) *RestMailer {
	return &RestMailer{
		client: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(apiKey).
			SetTimeout(timeout),
		from: from,
	}
}

func (m *RestMailer) Send(ctx context.Context, email Email) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"from":    m.from,
			"to":      email.To,
			"subject": email.Subject,
			"text":    email.Text,
		}).
		Post("/messages")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mail request status: %d", resp.StatusCode())
	}
	return nil
}
