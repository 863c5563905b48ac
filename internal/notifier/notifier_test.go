package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTwilio(t *testing.T, base string) Notifier {
	t.Helper()
	n, err := NewTwilio(Config{
		APIBase:    base,
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+15550000",
		Retry:      httpclient.Config{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}, logger.New("error"))
	require.NoError(t, err)
	return n
}

func TestTwilioSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15551234", r.PostForm.Get("To"))
		assert.Equal(t, "+15550000", r.PostForm.Get("From"))
		assert.Equal(t, "you're live", r.PostForm.Get("Body"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued","error_message":null}`))
	}))
	defer srv.Close()

	res, err := newTestTwilio(t, srv.URL).Send(context.Background(), "+15551234", "you're live")
	require.NoError(t, err)
	assert.Equal(t, "SM1", res.DeliveryID)
	assert.Equal(t, models.DeliveryQueued, res.Status)
}

func TestTwilioSendFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad request", http.StatusBadRequest, `{"code":21211,"message":"invalid To"}`},
		{"provider failed", http.StatusCreated, `{"sid":"SM2","status":"failed","error_message":"unreachable"}`},
		{"unavailable", http.StatusServiceUnavailable, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestTwilio(t, srv.URL).Send(context.Background(), "+15551234", "msg")
			if !errors.Is(err, models.ErrDeliveryFailed) {
				t.Errorf("Send() error = %v, want ErrDeliveryFailed", err)
			}
		})
	}
}

func TestTwilioSendEmptyRecipient(t *testing.T) {
	_, err := newTestTwilio(t, "http://127.0.0.1:0").Send(context.Background(), "", "msg")
	assert.True(t, errors.Is(err, models.ErrDeliveryFailed))
}

func TestNewTwilioRequiresCredentials(t *testing.T) {
	_, err := NewTwilio(Config{AccountSID: "AC"}, logger.New("error"))
	assert.Error(t, err)
}

func TestSignature(t *testing.T) {
	params := url.Values{}
	params.Set("From", "+15551234")
	params.Set("Body", "hello")
	params.Set("MessageSid", "SM1")
	u := "https://example.com/sms/webhook"

	sig := Signature("token", u, params)
	assert.NotEmpty(t, sig)
	assert.True(t, ValidateSignature("token", u, params, sig))
	assert.False(t, ValidateSignature("other", u, params, sig))
	assert.False(t, ValidateSignature("token", u+"?x=1", params, sig))
	assert.False(t, ValidateSignature("token", u, params, ""))

	// Key order in the form must not matter.
	reordered := url.Values{"MessageSid": {"SM1"}, "Body": {"hello"}, "From": {"+15551234"}}
	assert.Equal(t, sig, Signature("token", u, reordered))
}

func TestStubSend(t *testing.T) {
	res, err := NewStub(logger.New("error")).Send(context.Background(), "+1", "m")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStubbed, res.Status)
	assert.NotEmpty(t, res.DeliveryID)
}
