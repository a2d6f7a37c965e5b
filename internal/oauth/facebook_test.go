package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// facebookStub fakes the Graph API endpoints used for token verification.
type facebookStub struct {
	isValid  bool
	appToken string

	server *httptest.Server
}

func newFacebookStub(t *testing.T) *facebookStub {
	t.Helper()
	stub := &facebookStub{isValid: true, appToken: "app-token-1"}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + stub.appToken + `"}`))
	})
	mux.HandleFunc("/debug_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, stub.appToken, r.URL.Query().Get("access_token"))
		w.Header().Set("Content-Type", "application/json")
		if stub.isValid {
			w.Write([]byte(`{"data":{"is_valid":true,"user_id":"fb-1","app_id":"app-1"}}`))
		} else {
			w.Write([]byte(`{"data":{"is_valid":false,"error":{"code":190}}}`))
		}
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func TestFacebookVerifyToken(t *testing.T) {
	stub := newFacebookStub(t)
	bridge := NewFacebookBridge("app-1", "shh").WithGraphURL(stub.server.URL)

	assert.NoError(t, bridge.VerifyToken(context.Background(), "user-token"))
}

func TestFacebookVerifyTokenInvalid(t *testing.T) {
	stub := newFacebookStub(t)
	stub.isValid = false
	bridge := NewFacebookBridge("app-1", "shh").WithGraphURL(stub.server.URL)

	err := bridge.VerifyToken(context.Background(), "user-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestFacebookVerifyTokenEmptyAppToken(t *testing.T) {
	stub := newFacebookStub(t)
	stub.appToken = ""
	bridge := NewFacebookBridge("app-1", "shh").WithGraphURL(stub.server.URL)

	err := bridge.VerifyToken(context.Background(), "user-token")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func TestFacebookVerifyTokenProviderDown(t *testing.T) {
	stub := newFacebookStub(t)
	stub.server.Close()
	bridge := NewFacebookBridge("app-1", "shh").WithGraphURL(stub.server.URL)

	err := bridge.VerifyToken(context.Background(), "user-token")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}
