// Package jwt provides an HMAC-SHA256-over-base64url signing
// primitive. Persisted sessions are not bearer tokens; they carry no
// audience, issuer or expiry, so only the raw sign/verify primitive
// is exposed here. store/integrity.go calls Sign/Verify to stamp
// saved session documents against tampering.
package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

const HS256 = "HS256"

var std = base64.URLEncoding.WithPadding(base64.NoPadding)

// Sign computes an HMAC-SHA256 signature over data under secret,
// base64url-encoded with no padding.
func Sign(data []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return std.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig is the correct signature for data under
// secret, using a constant-time comparison so a timing side channel
// can't leak the expected signature.
func Verify(data []byte, secret, sig string) bool {
	want := Sign(data, secret)
	return hmac.Equal([]byte(want), []byte(sig))
}
