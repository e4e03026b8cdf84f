// file: config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdefghijklmnopqrstuvwxyz"

func TestParse_Defaults(t *testing.T) {
	t.Setenv("CHURCH_SESSION_SECRET", testSecret)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, MailProviderNoop, cfg.MailProvider)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes())
	assert.False(t, cfg.IsProduction())
}

func TestParse_TrustedOrigins(t *testing.T) {
	t.Setenv("CHURCH_SESSION_SECRET", testSecret)
	t.Setenv("CHURCH_TRUSTED_ORIGINS", "church.example.org,admin.example.org")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"church.example.org", "admin.example.org"}, cfg.TrustedOrigins)
}

func TestParse_MissingSecret(t *testing.T) {
	t.Setenv("CHURCH_SESSION_SECRET", "")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParse_ShortSecret(t *testing.T) {
	t.Setenv("CHURCH_SESSION_SECRET", "too-short")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestParse_MailProviders(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"smtp with host", map[string]string{"CHURCH_MAIL_PROVIDER": "smtp", "CHURCH_SMTP_HOST": "relay.example.org"}, false},
		{"resend without key", map[string]string{"CHURCH_MAIL_PROVIDER": "resend"}, true},
		{"resend with key", map[string]string{"CHURCH_MAIL_PROVIDER": "resend", "CHURCH_RESEND_API_KEY": "re_123"}, false},
		{"unknown", map[string]string{"CHURCH_MAIL_PROVIDER": "pigeon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CHURCH_SESSION_SECRET", testSecret)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
