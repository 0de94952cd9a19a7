package redact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"socialclient/pkg/redact"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"foobar@example.com", "fo***@example.com"},
		{"ab@ex.com", "***@ex.com"},
		{"user@", "us***@"},
		{"no-at", "***"},
		{"a@b@c", "***"},
		{"жанна@почта.рф", "жа***@почта.рф"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, redact.Email(tc.in))
		})
	}
}

func TestToken(t *testing.T) {
	assert.Empty(t, redact.Token(""))
	assert.Equal(t, "[REDACTED_TOKEN]", redact.Token("eyJhbGciOi"))
}
