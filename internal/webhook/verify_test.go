// internal/webhook/verify_test.go
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test-secret"
	body := []byte(`{"type":"RENEWAL"}`)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{
			name:   "valid signature",
			header: sign(secret, body),
		},
		{
			name:    "empty header",
			header:  "",
			wantErr: ErrMalformedSignature,
		},
		{
			name:    "wrong length",
			header:  "abcdef",
			wantErr: ErrMalformedSignature,
		},
		{
			name:    "non-hex header",
			header:  "zz" + sign(secret, body)[2:],
			wantErr: ErrMalformedSignature,
		},
		{
			name:    "wrong secret",
			header:  sign("other-secret", body),
			wantErr: ErrSignatureMismatch,
		},
		{
			name:    "tampered body",
			header:  sign(secret, []byte(`{"type":"CANCELLATION"}`)),
			wantErr: ErrSignatureMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(secret, body, tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
