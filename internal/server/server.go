package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/catalogkit/catalog/internal/auth"
	"github.com/catalogkit/catalog/internal/config"
	"github.com/catalogkit/catalog/internal/oauth"
	"github.com/catalogkit/catalog/internal/repository"
)

// Server bundles the handlers' collaborators: storage repositories, the
// authentication core, and the OAuth bridges (nil when unconfigured).
type Server struct {
	cfg        *config.Config
	users      repository.UserRepository
	categories repository.CategoryRepository
	items      repository.ItemRepository

	codec    *auth.Codec
	gate     *auth.Gate
	resolver *auth.Resolver

	google   *oauth.GoogleBridge
	facebook *oauth.FacebookBridge

	templates *template.Template
}

// Options carries the collaborators for NewServer.
type Options struct {
	Cfg        *config.Config
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Items      repository.ItemRepository
	Google     *oauth.GoogleBridge
	Facebook   *oauth.FacebookBridge
}

// NewServer assembles the handler set.
func NewServer(opts Options) *Server {
	codec := auth.NewCodec(opts.Cfg.SecretKey)
	return &Server{
		cfg:        opts.Cfg,
		users:      opts.Users,
		categories: opts.Categories,
		items:      opts.Items,
		codec:      codec,
		gate:       auth.NewGate(codec, opts.Items),
		resolver:   auth.NewResolver(opts.Users),
		google:     opts.Google,
		facebook:   opts.Facebook,
		templates:  parseTemplates(),
	}
}

// Codec exposes the credential codec for middleware construction.
func (s *Server) Codec() *auth.Codec { return s.codec }

// Gate exposes the authorization gate for middleware construction.
func (s *Server) Gate() *auth.Gate { return s.gate }

// apiRejection is the JSON body returned to API-style callers on any
// rejection, carrying a redirect hint alongside the message.
type apiRejection struct {
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Redirect string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeRejection(w http.ResponseWriter, status int, message, redirect string) {
	writeJSON(w, status, apiRejection{Message: message, Status: status, Redirect: redirect})
}

// headerPrincipal authenticates a mutating POST: the raw credential comes
// from the Authorization header while the plaintext expiry stays in its
// cookie. Returns nil for any missing, expired, or tampered credential.
func (s *Server) headerPrincipal(r *http.Request) *auth.Principal {
	token, expiresAt, ok := auth.CredentialFromRequest(r, true)
	if !ok {
		return nil
	}
	claims, err := s.gate.Authenticate(token, expiresAt)
	if err != nil {
		return nil
	}
	return &auth.Principal{UserID: claims.UserID, Name: claims.Name}
}
