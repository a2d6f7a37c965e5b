package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/catalogkit/catalog/internal/db/models"
)

// TokenLifetime is how long a minted session credential stays valid.
const TokenLifetime = time.Hour

// Claims is the decoded payload of a session credential.
type Claims struct {
	UserID    int64
	Name      string
	ExpiresAt int64
	IssuedAt  int64
}

// Codec mints and validates signed session credentials. Tokens are HS256 JWTs
// carrying the user id, display name, and expiry. The expiry also travels as a
// separate plaintext value so callers can reject stale tokens before paying
// for a signature check.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec signing with the given server secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the codec's time source. Test hook.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Mint builds a signed credential for the user. It returns the expiry as a
// separate unix timestamp; the caller ships both, since the expiry must be
// checkable without decoding the token.
func (c *Codec) Mint(user *models.User) (expiresAt int64, token string, err error) {
	issuedAt := c.now().Unix()
	expiresAt = issuedAt + int64(TokenLifetime.Seconds())

	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Name,
		"exp":      expiresAt,
		"iat":      issuedAt,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return 0, "", fmt.Errorf("sign credential: %w", err)
	}
	return expiresAt, signed, nil
}

// Validate checks a credential against its separately carried plaintext expiry.
//
// The plaintext expiry is a fast path only: when it says the token is stale the
// codec fails with ErrExpiredCredential without touching the signature. The
// authorization decision itself trusts the signed payload's own exp claim — a
// plaintext value that disagrees with the signed one means tampering and the
// whole credential is rejected as malformed.
func (c *Codec) Validate(token string, claimedExpiresAt int64) (*Claims, error) {
	now := c.now().Unix()
	if now > claimedExpiresAt {
		return nil, ErrExpiredCredential
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err != nil || !parsed.Valid {
		return nil, ErrMalformedCredential
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedCredential
	}

	userID, ok := claimNumber(mc, "id")
	if !ok {
		return nil, ErrMalformedCredential
	}
	exp, ok := claimNumber(mc, "exp")
	if !ok {
		return nil, ErrMalformedCredential
	}
	if exp != claimedExpiresAt {
		return nil, ErrMalformedCredential
	}
	if now > exp {
		return nil, ErrExpiredCredential
	}

	claims := &Claims{
		UserID:    userID,
		ExpiresAt: exp,
	}
	if name, ok := mc["username"].(string); ok {
		claims.Name = name
	}
	if iat, ok := claimNumber(mc, "iat"); ok {
		claims.IssuedAt = iat
	}
	return claims, nil
}

// claimNumber reads a numeric claim. JSON decoding yields float64; tokens we
// minted in-process may still hold int64.
func claimNumber(mc jwt.MapClaims, key string) (int64, bool) {
	switch v := mc[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
