package auth

import (
	"net/http"
	"strconv"
	"time"
)

// Cookie and field names shared between the server and the browser client.
const (
	TokenCookieName       = "token"
	ExpiryCookieName      = "expire_time"
	CSRFCookieName        = "csrf_token"
	CSRFFormField         = "_csrf_token"
	GoogleTokenCookieName = "gplus_token"
)

// CredentialFromRequest extracts the raw credential and its plaintext expiry
// from a request. Browser-rendered GETs carry the token in a cookie; mutating
// POSTs send it in the Authorization header (raw token, no scheme prefix)
// while the expiry still rides the cookie.
func CredentialFromRequest(r *http.Request, fromHeader bool) (token string, expiresAt int64, ok bool) {
	if fromHeader {
		token = r.Header.Get("Authorization")
	} else if c, err := r.Cookie(TokenCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		return "", 0, false
	}

	c, err := r.Cookie(ExpiryCookieName)
	if err != nil {
		return "", 0, false
	}
	expiresAt, err = strconv.ParseInt(c.Value, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return token, expiresAt, true
}

// SetCredentialCookies ships a freshly minted credential to the client.
func SetCredentialCookies(w http.ResponseWriter, token string, expiresAt int64) {
	expires := time.Unix(expiresAt, 0)
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// The expiry cookie is read by the client-side script before mutating
	// POSTs, so it cannot be HttpOnly.
	http.SetCookie(w, &http.Cookie{
		Name:     ExpiryCookieName,
		Value:    strconv.FormatInt(expiresAt, 10),
		Path:     "/",
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCredentialCookies logs the client out by expiring both credential
// cookies. The credential itself is stateless, so deletion on the client is
// the whole logout.
func ClearCredentialCookies(w http.ResponseWriter) {
	expireCookie(w, TokenCookieName)
	expireCookie(w, ExpiryCookieName)
}

// SetCSRFCookie stores the nonce for the upcoming form submission.
func SetCSRFCookie(w http.ResponseWriter, nonce string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    nonce,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// CSRFCookie returns the nonce previously issued to this client, or "".
func CSRFCookie(r *http.Request) string {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetGoogleTokenCookie stores the provider access token so logout can revoke it.
func SetGoogleTokenCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     GoogleTokenCookieName,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GoogleTokenCookie returns the stored provider access token, or "".
func GoogleTokenCookie(r *http.Request) string {
	c, err := r.Cookie(GoogleTokenCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ClearGoogleTokenCookie removes the stored provider access token.
func ClearGoogleTokenCookie(w http.ResponseWriter) {
	expireCookie(w, GoogleTokenCookieName)
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}
