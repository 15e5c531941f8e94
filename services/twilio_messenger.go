package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelCalendar = "calendar"
)

// TwilioMessenger sends WhatsApp messages to E.164 numbers when a WhatsApp
// sender is configured, and plain SMS otherwise.
type TwilioMessenger struct {
	client         *twilio.RestClient
	phoneNumber    string
	whatsAppNumber string
	log            *zap.Logger
}

func NewTwilioMessenger(accountSid, authToken, phoneNumber, whatsAppNumber string, log *zap.Logger) *TwilioMessenger {
	return &TwilioMessenger{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		phoneNumber:    phoneNumber,
		whatsAppNumber: whatsAppNumber,
		log:            log,
	}
}

// MessageChannel picks the channel and addresses for a recipient.
func MessageChannel(phone, smsFrom, whatsAppFrom string) (channel, to, from string) {
	if strings.HasPrefix(phone, "+") && whatsAppFrom != "" {
		return ChannelWhatsApp, "whatsapp:" + phone, "whatsapp:" + whatsAppFrom
	}
	return ChannelSMS, phone, smsFrom
}

func (m *TwilioMessenger) SendMessage(ctx context.Context, phone, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	channel, to, from := MessageChannel(phone, m.phoneNumber, m.whatsAppNumber)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return channel, fmt.Errorf("send %s message: %w", channel, err)
	}
	if resp.Sid != nil {
		m.log.Debug("message sent", zap.String("channel", channel), zap.String("sid", *resp.Sid))
	}
	return channel, nil
}
