// internal/webhook/verify.go
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Signature verification errors. A malformed header is the caller's
// formatting problem (400); a well-formed header that does not match is
// an authentication failure (401).
var (
	ErrMalformedSignature = errors.New("malformed signature header")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// VerifySignature checks the hex HMAC-SHA256 of the raw request body
// against the shared secret. The comparison is constant-time.
func VerifySignature(secret string, body []byte, header string) error {
	if header == "" || len(header) != hex.EncodedLen(sha256.Size) {
		return ErrMalformedSignature
	}
	provided, err := hex.DecodeString(header)
	if err != nil {
		return ErrMalformedSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}
	return nil
}
