package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const facebookGraphURL = "https://graph.facebook.com"

// FacebookBridge verifies client-supplied access tokens. The browser obtains
// the user token itself; the server's job is to prove the token is genuine by
// introspecting it with an app-level token obtained through the
// client-credentials grant.
type FacebookBridge struct {
	clientID     string
	clientSecret string

	graphURL   string
	httpClient *http.Client
}

// NewFacebookBridge creates a bridge for the registered Facebook app.
func NewFacebookBridge(clientID, clientSecret string) *FacebookBridge {
	return &FacebookBridge{
		clientID:     clientID,
		clientSecret: clientSecret,
		graphURL:     facebookGraphURL,
		httpClient:   defaultHTTPClient(),
	}
}

// WithGraphURL overrides the Graph API base URL. Test hook.
func (b *FacebookBridge) WithGraphURL(u string) *FacebookBridge {
	b.graphURL = u
	return b
}

type appTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type debugTokenResponse struct {
	Data struct {
		IsValid bool   `json:"is_valid"`
		UserID  string `json:"user_id"`
		AppID   string `json:"app_id"`
	} `json:"data"`
}

// VerifyToken introspects a client-supplied user access token. It returns nil
// only when the provider explicitly reports the token valid; every network
// failure or negative answer fails closed.
func (b *FacebookBridge) VerifyToken(ctx context.Context, userAccessToken string) error {
	appToken, err := b.appToken(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/debug_token?input_token=%s&access_token=%s",
		b.graphURL, url.QueryEscape(userAccessToken), url.QueryEscape(appToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	var debug debugTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&debug); err != nil {
		return fmt.Errorf("%w: decode debug_token: %v", ErrTokenInvalid, err)
	}
	if !debug.Data.IsValid {
		return ErrTokenInvalid
	}
	return nil
}

// appToken obtains the app-level token via the client-credentials grant.
func (b *FacebookBridge) appToken(ctx context.Context) (string, error) {
	u := fmt.Sprintf("%s/oauth/access_token?client_id=%s&client_secret=%s&grant_type=client_credentials",
		b.graphURL, url.QueryEscape(b.clientID), url.QueryEscape(b.clientSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	var at appTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&at); err != nil {
		return "", fmt.Errorf("%w: decode app token: %v", ErrExchangeFailed, err)
	}
	if at.AccessToken == "" {
		return "", fmt.Errorf("%w: empty app token", ErrExchangeFailed)
	}
	return at.AccessToken, nil
}
