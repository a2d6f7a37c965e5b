package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	catalogmiddleware "github.com/catalogkit/catalog/internal/middleware"
)

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// NewRouter assembles the chi router with shared middleware and every
// handler mounted. The authenticator only annotates the context; each
// handler decides whether anonymous access is acceptable.
func NewRouter(s *Server) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(DefaultCORSOptions()))
	r.Use(catalogmiddleware.Authenticator(s.gate))

	// Browser-rendered catalog pages
	r.Get("/", s.handleMain)
	r.Get("/category/{categoryID}/", s.handleItemList)
	r.Get("/category/{categoryID}/item/{itemID}", s.handleItemDetail)

	// Item mutation: GET renders the form, POST is the API-style mutation
	r.Get("/items/", s.handleAddItemForm)
	r.Post("/items/", s.handleAddItem)
	r.Get("/category/{categoryID}/item/{itemID}/edit", s.handleEditItemForm)
	r.Post("/category/{categoryID}/item/{itemID}/edit", s.handleEditItem)
	r.Get("/item/{itemID}/delete/", s.handleDeleteItemForm)
	r.Post("/item/{itemID}/delete/", s.handleDeleteItem)

	// Embedded browser assets
	r.Handle("/static/*", staticHandler())

	// Public JSON endpoints
	r.Get("/catalog.json", s.handleCatalogJSON)
	r.Get("/category/{categoryID}/item.json", s.handleItemListJSON)
	r.Get("/category/{categoryID}/item/{itemID}/detail.json", s.handleItemDetailJSON)

	// Authentication
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handleLoginForm)
		r.Post("/login", s.handleLogin)
		r.Get("/signup", s.handleSignupForm)
		r.Post("/signup", s.handleSignup)
		r.Get("/logout", s.handleLogout)

		if s.google != nil {
			r.Post("/gconnect/", s.handleGoogleConnect)
			r.Get("/gdisconnect", s.handleGoogleDisconnect)
		}
		if s.facebook != nil {
			r.Post("/fconnect/", s.handleFacebookConnect)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
