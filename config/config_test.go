package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0 6 * * *", cfg.RecurringCron)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry())
	assert.Equal(t, 30*24*time.Hour, cfg.ReferralTTL())
	assert.Equal(t, 10*time.Second, cfg.Calendar.Timeout)
	assert.False(t, cfg.Twilio.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("REFERRAL_TTL_DAYS", "7")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("MAIL_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.ReferralTTL())
	assert.True(t, cfg.Twilio.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Mail.Timeout)
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "a day")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateServe(t *testing.T) {
	assert.Error(t, Config{}.ValidateServe())
	assert.NoError(t, Config{JWTSecret: "s3cret"}.ValidateServe())
}

func TestNewZapLog(t *testing.T) {
	log, err := NewZapLog("debug")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = NewZapLog("loud")
	assert.Error(t, err)
}
