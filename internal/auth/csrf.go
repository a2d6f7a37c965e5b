package auth

import (
	"crypto/rand"
	"math/big"
)

const (
	csrfTokenLength   = 32
	csrfTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateCSRFToken returns a 32-character random nonce bound to one
// render-then-submit cycle. The nonce travels both in a cookie and in the
// rendered form; submission is accepted only when the two agree.
func GenerateCSRFToken() string {
	buf := make([]byte, csrfTokenLength)
	max := big.NewInt(int64(len(csrfTokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the entropy source is broken,
			// at which point no credential operation is safe either.
			panic(err)
		}
		buf[i] = csrfTokenAlphabet[n.Int64()]
	}
	return string(buf)
}

// VerifyCSRFToken reports whether the cookie nonce round-tripped through the
// form. Both values must be present and exactly equal. This defends against
// cross-origin submission only, not replay within one session.
func VerifyCSRFToken(cookieToken, formToken string) bool {
	return cookieToken != "" && formToken != "" && cookieToken == formToken
}
