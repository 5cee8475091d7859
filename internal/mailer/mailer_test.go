package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsDriver(t *testing.T) {
	log := zerolog.Nop()

	tests := []struct {
		driver  string
		key     string
		want    any
		wantErr bool
	}{
		{driver: "", want: &LogMailer{}},
		{driver: config.MailDriverLog, want: &LogMailer{}},
		{driver: config.MailDriverSMTP, want: &SMTPMailer{}},
		{driver: config.MailDriverSendGrid, key: "SG.key", want: &SendGridMailer{}},
		{driver: config.MailDriverSendGrid, wantErr: true},
		{driver: "pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := &config.Config{AppName: "UniRecords", Mail: config.MailConfig{Driver: tt.driver, SendGridAPIKey: tt.key}}
			m, err := New(cfg, log)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, m)
		})
	}
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf))

	require.NoError(t, m.Send(context.Background(), Message{To: "a@demo.com", Subject: "Hi", Body: "Body"}))
	assert.Contains(t, buf.String(), `"to":"a@demo.com"`)
	assert.Contains(t, buf.String(), `"subject":"Hi"`)

	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNoRecipient)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Send(context.Background(), Message{To: "a@demo.com"}))
	assert.Len(t, r.Sent(), 1)

	r.Err = errors.New("smtp down")
	assert.Error(t, r.Send(context.Background(), Message{To: "b@demo.com"}))
	assert.Len(t, r.Sent(), 1)
}

func TestSMTPMailerBuild(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{DefaultSender: "registrar@campus.test"})

	em, err := m.build(Message{To: "student@campus.test", Subject: "Grade", Body: "Score 8"})
	require.NoError(t, err)
	assert.NotNil(t, em)

	_, err = m.build(Message{To: "not an address"})
	assert.Error(t, err)
}

func TestSendGridMailer(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sendGridEndpoint, r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer("SG.key", "UniRecords", "registrar@campus.test")
	m.host = srv.URL

	err := m.Send(context.Background(), Message{To: "student@campus.test", Subject: "Grade", Body: "Score 8"})
	require.NoError(t, err)

	personalizations := got["personalizations"].([]any)
	assert.Equal(t, "[UniRecords] Grade", personalizations[0].(map[string]any)["subject"])
}

func TestSendGridMailerRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewSendGridMailer("bad", "UniRecords", "registrar@campus.test")
	m.host = srv.URL

	assert.Error(t, m.Send(context.Background(), Message{To: "student@campus.test"}))
}
