package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestCalendarClient_CreateEvent(t *testing.T) {
	var got CalendarEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"evt-42"}`))
	}))
	defer srv.Close()

	client := NewRestCalendarClient(srv.URL, "key", time.Second)
	id, err := client.CreateEvent(context.Background(), CalendarEvent{Title: "Gig", Reference: "order-1"})
	require.NoError(t, err)
	assert.Equal(t, "evt-42", id)
	assert.Equal(t, "Gig", got.Title)
}

func TestRestCalendarClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRestCalendarClient(srv.URL, "key", time.Second).CreateEvent(context.Background(), CalendarEvent{})
	assert.ErrorContains(t, err, "502")
}

func TestRestMailer_Send(t *testing.T) {
	var body map[string]string
	status := http.StatusAccepted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(status)
	}))
	defer srv.Close()

	mailer := NewRestMailer(srv.URL, "key", "no-reply@vertigo.app", time.Second)
	require.NoError(t, mailer.Send(context.Background(), Email{To: "tom@example.com", Subject: "Hi", Text: "Hello"}))
	assert.Equal(t, "no-reply@vertigo.app", body["from"])
	assert.Equal(t, "tom@example.com", body["to"])

	status = http.StatusInternalServerError
	assert.Error(t, mailer.Send(context.Background(), Email{To: "tom@example.com"}))
}
