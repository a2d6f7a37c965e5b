package server

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/catalogkit/catalog/internal/auth"
	"github.com/catalogkit/catalog/internal/db/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookieName = "flash"

// viewData is the payload handed to every template. User is nil for
// anonymous visitors; templates branch on it to show login vs. owner links.
type viewData struct {
	User        *auth.Principal
	Flash       string
	CSRFToken   string
	CachedEmail string
	ClientID    string

	Categories []models.Category
	Category   *models.Category
	Items      []models.Item
	Item       *models.Item
}

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// render executes one template with the flash message (if any) consumed from
// its cookie. Render failures are logged, not surfaced: by this point the
// handler has already committed to a 200.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data *viewData) {
	if data == nil {
		data = &viewData{}
	}
	if data.User == nil {
		if p, ok := auth.PrincipalFromContext(r.Context()); ok {
			data.User = &p
		}
	}
	if data.Flash == "" {
		data.Flash = popFlash(w, r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

// setFlash queues a one-shot message for the next rendered page.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:    flashCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// redirectWithFlash queues a message and redirects a browser-rendered flow.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	setFlash(w, message)
	http.Redirect(w, r, target, http.StatusFound)
}
