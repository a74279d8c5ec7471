package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPushChannel_Send(t *testing.T) {
	var got pushPayload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	channel := NewWebhookPushChannel(config.PushConfig{Endpoint: server.URL, APIKey: "secret"})
	require.True(t, channel.IsEnabled())

	err := channel.Send(context.Background(), 7, "Antrian Baru", "Pengajuan #42 menunggu.", map[string]string{"loan_id": "42"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "Antrian Baru", got.Title)
	assert.Equal(t, "42", got.Data["loan_id"])
}

func TestWebhookPushChannel_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	channel := NewWebhookPushChannel(config.PushConfig{Endpoint: server.URL})
	err := channel.Send(context.Background(), 7, "t", "b", nil)
	assert.Error(t, err)
}

func TestWebhookPushChannel_DisabledIsNoop(t *testing.T) {
	channel := NewWebhookPushChannel(config.PushConfig{})
	assert.False(t, channel.IsEnabled())
	assert.NoError(t, channel.Send(context.Background(), 7, "t", "b", nil))
}

func TestSMTPMailer_SendDisbursementNotice(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string

	mailer := NewSMTPMailer(config.MailConfig{
		Host: "smtp.example.com",
		Port: "587",
		From: "no-reply@loanflow.local",
	})
	mailer.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotFrom = from
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	loan := &models.LoanApplication{ID: 42, Amount: 10_000_000, TotalPayable: 11_200_000, TenureMonths: 12}
	err := mailer.SendDisbursementNotice(context.Background(), "budi@example.com", loan)
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "no-reply@loanflow.local", gotFrom)
	assert.Equal(t, []string{"budi@example.com"}, gotTo)
	assert.True(t, strings.Contains(gotMsg, "Subject: Pencairan Pinjaman #42"))
	assert.True(t, strings.Contains(gotMsg, "dicairkan"))
}

func TestSMTPMailer_DisabledIsNoop(t *testing.T) {
	mailer := NewSMTPMailer(config.MailConfig{})
	assert.False(t, mailer.IsEnabled())
	assert.NoError(t, mailer.SendDisbursementNotice(context.Background(), "x@example.com", &models.LoanApplication{}))
}
