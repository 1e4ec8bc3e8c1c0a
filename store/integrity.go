package store

import (
	"errors"

	"github.com/ellex-lang/ellex/jwt"
)

// ErrTampered is returned by Load when a stamped document's signature
// doesn't match its bytes: a corrupted or hand-edited save file.
var ErrTampered = errors.New("session document failed integrity check")

// Stamp computes an integrity stamp over a document's raw bytes using
// jwt's HS256 signing primitive. A persisted session is not a bearer
// token and carries no audience or issuer, only a "was this
// byte-for-byte what I wrote" check.
func Stamp(data []byte, secret string) string {
	return jwt.Sign(data, secret)
}

// Verify reports whether stamp matches data under secret.
func Verify(data []byte, secret, stamp string) bool {
	return jwt.Verify(data, secret, stamp)
}
