package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAIL_DRIVER", "")
	t.Setenv("MAIL_USERNAME", "registrar@campus.test")
	t.Setenv("MAIL_DEFAULT_SENDER", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("MAIL_ASYNC", "")
	t.Setenv("MAIL_MAX_ATTEMPTS", "")

	cfg := Load()

	assert.Equal(t, MailDriverLog, cfg.Mail.Driver)
	assert.Equal(t, "registrar@campus.test", cfg.Mail.DefaultSender)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.Mail.UseTLS)
	assert.False(t, cfg.Mail.Async, "grade mail is synchronous unless MAIL_ASYNC is set")
	assert.Equal(t, 3, cfg.Mail.MaxAttempts)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"True", true},
		{"1", true},
		{"t", true},
		{"false", false},
		{"0", false},
		{"nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("MAIL_USE_TLS", tt.raw)
			assert.Equal(t, tt.want, getEnvBool("MAIL_USE_TLS", true))
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, parseOrigins(" https://a.test, ,https://b.test "))
}
