package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/catalogkit/catalog/internal/auth"
	"github.com/catalogkit/catalog/internal/db/models"
	"github.com/catalogkit/catalog/internal/oauth"
	"github.com/catalogkit/catalog/internal/repository"
)

// handleLoginForm renders the login page with a fresh CSRF nonce.
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	nonce := auth.GenerateCSRFToken()
	auth.SetCSRFCookie(w, nonce)
	s.render(w, r, "login.html", &viewData{
		CSRFToken: nonce,
		ClientID:  s.cfg.Google.ClientID,
	})
}

// handleLogin processes the password login form.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if !auth.VerifyCSRFToken(auth.CSRFCookie(r), r.PostFormValue(auth.CSRFFormField)) {
		s.render(w, r, "login.html", &viewData{
			Flash:    "Please use proper login.",
			ClientID: s.cfg.Google.ClientID,
		})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		s.renderLoginError(w, r, email, "Please fill the form.")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.renderLoginError(w, r, email, "Invalid email address or password.")
			return
		}
		log.Printf("login: lookup %s: %v", email, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	// An OAuth-only account has no local password to check.
	if !user.HasPassword() {
		s.renderLoginError(w, r, email, "You've signed up with social service.")
		return
	}

	if !auth.VerifyPassword(password, *user.PasswordHash, deref(user.PasswordSalt)) {
		s.renderLoginError(w, r, email, "Invalid email address or password.")
		return
	}

	s.establishSession(w, r, user)
}

func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, email, message string) {
	nonce := auth.GenerateCSRFToken()
	auth.SetCSRFCookie(w, nonce)
	s.render(w, r, "login.html", &viewData{
		Flash:       message,
		CSRFToken:   nonce,
		CachedEmail: email,
		ClientID:    s.cfg.Google.ClientID,
	})
}

// handleSignupForm renders the signup page with a fresh CSRF nonce.
func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	nonce := auth.GenerateCSRFToken()
	auth.SetCSRFCookie(w, nonce)
	s.render(w, r, "signup.html", &viewData{
		CSRFToken: nonce,
		ClientID:  s.cfg.Google.ClientID,
	})
}

// handleSignup processes the signup form. An email that already belongs to a
// password account is rejected; an OAuth-only account with the same email
// gains a password instead (same identity, linked by email).
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if !auth.VerifyCSRFToken(auth.CSRFCookie(r), r.PostFormValue(auth.CSRFFormField)) {
		s.render(w, r, "signup.html", &viewData{
			Flash:    "Please use proper signup.",
			ClientID: s.cfg.Google.ClientID,
		})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm")

	if email == "" || password == "" || confirm == "" {
		s.renderSignupError(w, r, email, "Please fill the form.")
		return
	}
	if password != confirm {
		s.renderSignupError(w, r, email, "Confirm password has to be the same as password")
		return
	}

	user, err := s.users.GetByEmail(r.Context(), email)
	switch {
	case err == nil:
		if user.HasPassword() {
			s.renderSignupError(w, r, email, "Such user already exist. Please login")
			return
		}
	case errors.Is(err, repository.ErrUserNotFound):
		user = nil
	default:
		log.Printf("signup: lookup %s: %v", email, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	digest, salt := auth.HashPassword(password)
	if user == nil {
		user, err = s.resolver.FindOrCreate(r.Context(), email)
		if err != nil {
			log.Printf("signup: create %s: %v", email, err)
			http.Error(w, "storage failure", http.StatusInternalServerError)
			return
		}
	}
	user.PasswordHash = &digest
	user.PasswordSalt = &salt
	if err := s.users.Update(r.Context(), user); err != nil {
		log.Printf("signup: store password for %s: %v", email, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	s.establishSession(w, r, user)
}

func (s *Server) renderSignupError(w http.ResponseWriter, r *http.Request, email, message string) {
	nonce := auth.GenerateCSRFToken()
	auth.SetCSRFCookie(w, nonce)
	s.render(w, r, "signup.html", &viewData{
		Flash:       message,
		CSRFToken:   nonce,
		CachedEmail: email,
		ClientID:    s.cfg.Google.ClientID,
	})
}

// establishSession mints a credential for the user, ships it via the session
// carrier, and redirects to the main page.
func (s *Server) establishSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	expiresAt, token, err := s.codec.Mint(user)
	if err != nil {
		log.Printf("establish session: mint for user %d: %v", user.ID, err)
		http.Error(w, "failed to establish session", http.StatusInternalServerError)
		return
	}
	if err := s.users.UpdateLastLogin(r.Context(), user.ID); err != nil {
		log.Printf("establish session: update last login for user %d: %v", user.ID, err)
	}

	auth.SetCredentialCookies(w, token, expiresAt)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleGoogleConnect exchanges the authorization code posted by the browser
// and logs the confirmed identity in. The CSRF nonce rides a query parameter
// because the code arrives as the raw request body.
func (s *Server) handleGoogleConnect(w http.ResponseWriter, r *http.Request) {
	if !auth.VerifyCSRFToken(auth.CSRFCookie(r), r.URL.Query().Get(auth.CSRFFormField)) {
		writeRejection(w, http.StatusUnauthorized, "Fail to connect", "/auth/login")
		return
	}

	code, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil || len(code) == 0 {
		writeRejection(w, http.StatusBadRequest, "Missing authorization code", "/auth/login")
		return
	}

	profile, accessToken, err := s.google.Exchange(r.Context(), string(code))
	if err != nil {
		s.rejectProviderError(w, err)
		return
	}

	user, err := s.resolver.FindOrCreate(r.Context(), profile.Email)
	if err != nil {
		log.Printf("gconnect: resolve %s: %v", profile.Email, err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", "/")
		return
	}
	s.adoptProfile(r, user, profile)

	expiresAt, token, err := s.codec.Mint(user)
	if err != nil {
		log.Printf("gconnect: mint for user %d: %v", user.ID, err)
		writeRejection(w, http.StatusInternalServerError, "failed to establish session", "/")
		return
	}
	if err := s.users.UpdateLastLogin(r.Context(), user.ID); err != nil {
		log.Printf("gconnect: update last login for user %d: %v", user.ID, err)
	}

	auth.SetCredentialCookies(w, token, expiresAt)
	auth.SetGoogleTokenCookie(w, accessToken)
	setFlash(w, "Successfully logged in with Google +")
	writeJSON(w, http.StatusOK, apiRejection{
		Message:  "Successfully logged in with Google +",
		Status:   http.StatusOK,
		Redirect: "/",
	})
}

// handleGoogleDisconnect revokes the stored provider access token.
func (s *Server) handleGoogleDisconnect(w http.ResponseWriter, r *http.Request) {
	accessToken := auth.GoogleTokenCookie(r)
	if accessToken == "" {
		writeJSON(w, http.StatusOK, apiRejection{
			Message: "Current user is not connected.",
			Status:  http.StatusOK,
		})
		return
	}

	if err := s.google.Revoke(r.Context(), accessToken); err != nil {
		writeRejection(w, http.StatusBadRequest, "Failed to revoke token for given user", "/")
		return
	}

	auth.ClearGoogleTokenCookie(w)
	writeJSON(w, http.StatusOK, apiRejection{
		Message: "Successfully disconnected",
		Status:  http.StatusOK,
	})
}

// facebookConnectRequest is the JSON body posted by the browser-side flow.
type facebookConnectRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// handleFacebookConnect logs in with a client-supplied provider token, but
// only after the provider itself confirms the token is valid.
func (s *Server) handleFacebookConnect(w http.ResponseWriter, r *http.Request) {
	var req facebookConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRejection(w, http.StatusBadRequest, "Invalid request body", "/auth/login")
		return
	}
	if req.Email == "" || req.AccessToken == "" {
		writeRejection(w, http.StatusBadRequest, "Missing email or access token", "/auth/login")
		return
	}

	if err := s.facebook.VerifyToken(r.Context(), req.AccessToken); err != nil {
		writeRejection(w, http.StatusUnauthorized, "User access token is not valid", "/auth/login")
		return
	}

	user, err := s.resolver.FindOrCreate(r.Context(), req.Email)
	if err != nil {
		log.Printf("fconnect: resolve %s: %v", req.Email, err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", "/")
		return
	}
	s.adoptProfile(r, user, &oauth.Profile{Email: req.Email, Name: req.Name})

	expiresAt, token, err := s.codec.Mint(user)
	if err != nil {
		log.Printf("fconnect: mint for user %d: %v", user.ID, err)
		writeRejection(w, http.StatusInternalServerError, "failed to establish session", "/")
		return
	}
	if err := s.users.UpdateLastLogin(r.Context(), user.ID); err != nil {
		log.Printf("fconnect: update last login for user %d: %v", user.ID, err)
	}

	auth.SetCredentialCookies(w, token, expiresAt)
	setFlash(w, "Successfully logged in with Facebook")
	writeJSON(w, http.StatusOK, apiRejection{
		Message:  "Successfully logged in with Facebook",
		Status:   http.StatusOK,
		Redirect: "/",
	})
}

// handleLogout deletes both credential cookies by expiring them. The
// credential is stateless so there is nothing to revoke server-side.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCredentialCookies(w)
	redirectWithFlash(w, r, "/", "Successfully logged out.")
}

// rejectProviderError maps bridge failures onto the response contract:
// 401 for auth-level rejections, 500 when the provider itself failed.
func (s *Server) rejectProviderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, oauth.ErrUserIDMismatch):
		writeRejection(w, http.StatusUnauthorized, "Token's user ID doesn't match", "/auth/login")
	case errors.Is(err, oauth.ErrClientIDMismatch):
		writeRejection(w, http.StatusUnauthorized, "Token's client ID doesn't match", "/auth/login")
	case errors.Is(err, oauth.ErrProviderFailure):
		writeRejection(w, http.StatusInternalServerError, "Provider connection error", "/auth/login")
	case errors.Is(err, oauth.ErrTokenInvalid):
		writeRejection(w, http.StatusUnauthorized, "User access token is not valid", "/auth/login")
	default:
		writeRejection(w, http.StatusUnauthorized, "Fail to upgrade", "/auth/login")
	}
}

// adoptProfile fills in display fields the identity is missing. Best effort;
// login proceeds even when the update fails.
func (s *Server) adoptProfile(r *http.Request, user *models.User, profile *oauth.Profile) {
	changed := false
	if user.Name == "" && profile.Name != "" {
		user.Name = profile.Name
		changed = true
	}
	if user.Picture == "" && profile.Picture != "" {
		user.Picture = profile.Picture
		changed = true
	}
	if changed {
		if err := s.users.Update(r.Context(), user); err != nil {
			log.Printf("adopt profile for user %d: %v", user.ID, err)
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
