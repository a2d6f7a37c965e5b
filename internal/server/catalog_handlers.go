package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/catalogkit/catalog/internal/auth"
	"github.com/catalogkit/catalog/internal/db/models"
	"github.com/catalogkit/catalog/internal/repository"
)

const recentItemLimit = 10

func urlParamInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// handleMain renders the landing page: all categories plus the most
// recently created items.
func (s *Server) handleMain(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context())
	if err != nil {
		log.Printf("main: list categories: %v", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	items, err := s.items.ListRecent(r.Context(), recentItemLimit)
	if err != nil {
		log.Printf("main: list recent items: %v", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "main.html", &viewData{
		Categories: categories,
		Items:      items,
	})
}

// handleItemList renders all items inside one category.
func (s *Server) handleItemList(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlParamInt64(r, "categoryID")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	category, err := s.categories.GetByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("item list: load category %d: %v", categoryID, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	items, err := s.items.ListByCategory(r.Context(), categoryID)
	if err != nil {
		log.Printf("item list: list items for category %d: %v", categoryID, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	categories, err := s.categories.List(r.Context())
	if err != nil {
		log.Printf("item list: list categories: %v", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "item_list.html", &viewData{
		Categories: categories,
		Category:   category,
		Items:      items,
	})
}

// handleItemDetail renders a single item. Edit and delete links only show
// for the owner; the template compares the viewer against Item.UserID.
func (s *Server) handleItemDetail(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadItemForRequest(w, r)
	if !ok {
		return
	}
	category, err := s.categories.GetByID(r.Context(), item.CategoryID)
	if err != nil {
		log.Printf("item detail: load category %d: %v", item.CategoryID, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "item_detail.html", &viewData{
		Category: category,
		Item:     item,
	})
}

// handleAddItemForm renders the creation form for logged-in users.
func (s *Server) handleAddItemForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
		redirectWithFlash(w, r, "/auth/login", "Please login.")
		return
	}
	categories, err := s.categories.List(r.Context())
	if err != nil {
		log.Printf("add item form: list categories: %v", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "add_item.html", &viewData{Categories: categories})
}

// handleAddItem creates an item for the caller identified by the
// Authorization header.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	principal := s.headerPrincipal(r)
	if principal == nil {
		writeRejection(w, http.StatusUnauthorized, "Please login", "/auth/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeRejection(w, http.StatusBadRequest, "Please use the proper way", "/items/")
		return
	}

	title := strings.TrimSpace(r.PostFormValue("title"))
	if title == "" {
		writeRejection(w, http.StatusUnauthorized, "Please use the proper way", "/items/")
		return
	}
	categoryID, err := strconv.ParseInt(r.PostFormValue("category"), 10, 64)
	if err != nil {
		writeRejection(w, http.StatusUnauthorized, "Please use the proper way", "/items/")
		return
	}

	item := &models.Item{
		Title:       title,
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
		CategoryID:  categoryID,
		UserID:      principal.UserID,
	}
	if err := s.items.Create(r.Context(), item); err != nil {
		log.Printf("add item: create: %v", err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", "/items/")
		return
	}

	writeJSON(w, http.StatusOK, apiRejection{
		Message:  "The item was successfully created.",
		Status:   http.StatusOK,
		Redirect: itemDetailPath(item),
	})
}

// handleEditItemForm renders the edit form. Requires login and ownership;
// everyone else bounces back to the main page.
func (s *Server) handleEditItemForm(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		redirectWithFlash(w, r, "/auth/login", "Please login.")
		return
	}
	item, ok := s.loadItemForRequest(w, r)
	if !ok {
		return
	}
	if err := s.gate.AuthorizeOwner(r.Context(), principal.UserID, item.ID); err != nil {
		redirectWithFlash(w, r, "/", "You are not authorized.")
		return
	}
	categories, err := s.categories.List(r.Context())
	if err != nil {
		log.Printf("edit item form: list categories: %v", err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "edit_item.html", &viewData{
		Categories: categories,
		Item:       item,
	})
}

// handleEditItem applies the posted changes after the ownership check.
func (s *Server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		writeRejection(w, http.StatusNotFound, "Item not found", "/")
		return
	}
	item, err := s.items.GetByID(r.Context(), itemID)
	if err != nil {
		s.rejectItemLoadError(w, itemID, err)
		return
	}
	detail := itemDetailPath(item)

	principal := s.headerPrincipal(r)
	if principal == nil {
		writeRejection(w, http.StatusUnauthorized, "You are not authorized", detail)
		return
	}
	if err := s.gate.AuthorizeOwner(r.Context(), principal.UserID, item.ID); err != nil {
		s.rejectOwnershipError(w, err, detail)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeRejection(w, http.StatusBadRequest, "Please use the proper way", detail)
		return
	}
	title := strings.TrimSpace(r.PostFormValue("title"))
	if title == "" {
		writeRejection(w, http.StatusUnauthorized, "Please use the proper way", detail)
		return
	}
	if categoryID, err := strconv.ParseInt(r.PostFormValue("category"), 10, 64); err == nil {
		item.CategoryID = categoryID
	}
	item.Title = title
	item.Description = r.PostFormValue("description")
	item.Price = r.PostFormValue("price")

	if err := s.items.Update(r.Context(), item); err != nil {
		log.Printf("edit item %d: %v", item.ID, err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", detail)
		return
	}

	writeJSON(w, http.StatusOK, apiRejection{
		Message:  "The item was successfully edited.",
		Status:   http.StatusOK,
		Redirect: itemDetailPath(item),
	})
}

// handleDeleteItemForm renders the confirmation page. It requires login but
// leaves the ownership decision to the POST handler.
func (s *Server) handleDeleteItemForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
		redirectWithFlash(w, r, "/auth/login", "Please login.")
		return
	}
	item, ok := s.loadItemForRequest(w, r)
	if !ok {
		return
	}
	s.render(w, r, "delete_item.html", &viewData{Item: item})
}

// handleDeleteItem removes an item after the ownership check.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		writeRejection(w, http.StatusNotFound, "Item not found", "/")
		return
	}
	item, err := s.items.GetByID(r.Context(), itemID)
	if err != nil {
		s.rejectItemLoadError(w, itemID, err)
		return
	}
	detail := itemDetailPath(item)

	principal := s.headerPrincipal(r)
	if principal == nil {
		writeRejection(w, http.StatusUnauthorized, "You are not authorized", detail)
		return
	}
	if err := s.gate.AuthorizeOwner(r.Context(), principal.UserID, item.ID); err != nil {
		s.rejectOwnershipError(w, err, detail)
		return
	}

	if err := s.items.Delete(r.Context(), item.ID); err != nil {
		log.Printf("delete item %d: %v", item.ID, err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", detail)
		return
	}

	writeJSON(w, http.StatusOK, apiRejection{
		Message:  "The item was successfully deleted.",
		Status:   http.StatusOK,
		Redirect: "/",
	})
}

// handleCatalogJSON dumps every category with its items nested inside.
func (s *Server) handleCatalogJSON(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context())
	if err != nil {
		log.Printf("catalog.json: list categories: %v", err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", "")
		return
	}

	serialized := make([]map[string]any, 0, len(categories))
	for i := range categories {
		c := &categories[i]
		items, err := s.items.ListByCategory(r.Context(), c.ID)
		if err != nil {
			log.Printf("catalog.json: list items for category %d: %v", c.ID, err)
			writeRejection(w, http.StatusInternalServerError, "storage failure", "")
			return
		}
		entry := c.Serialize()
		entry["items"] = serializeItems(items)
		serialized = append(serialized, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"type":            "collection",
		"collection_type": "categories",
		"categories":      serialized,
	})
}

// handleItemListJSON dumps the items of one category.
func (s *Server) handleItemListJSON(w http.ResponseWriter, r *http.Request) {
	categoryID, err := urlParamInt64(r, "categoryID")
	if err != nil {
		writeRejection(w, http.StatusNotFound, "Category not found", "")
		return
	}
	category, err := s.categories.GetByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			writeRejection(w, http.StatusNotFound, "Category not found", "")
			return
		}
		log.Printf("item.json: load category %d: %v", categoryID, err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", "")
		return
	}
	items, err := s.items.ListByCategory(r.Context(), categoryID)
	if err != nil {
		log.Printf("item.json: list items for category %d: %v", categoryID, err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"type":     "collection",
		"category": category.Serialize(),
		"items":    serializeItems(items),
	})
}

// handleItemDetailJSON dumps a single item.
func (s *Server) handleItemDetailJSON(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		writeRejection(w, http.StatusNotFound, "Item not found", "")
		return
	}
	item, err := s.items.GetByID(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			writeRejection(w, http.StatusNotFound, "Item not found", "")
			return
		}
		log.Printf("detail.json: load item %d: %v", itemID, err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"type":   "entity",
		"item":   item.Serialize(),
	})
}

// loadItemForRequest resolves the {itemID} path parameter for page handlers,
// writing the error response itself when the item can't be served.
func (s *Server) loadItemForRequest(w http.ResponseWriter, r *http.Request) (*models.Item, bool) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}
	item, err := s.items.GetByID(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		log.Printf("load item %d: %v", itemID, err)
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return nil, false
	}
	return item, true
}

func (s *Server) rejectItemLoadError(w http.ResponseWriter, itemID int64, err error) {
	if errors.Is(err, repository.ErrItemNotFound) {
		writeRejection(w, http.StatusNotFound, "Item not found", "/")
		return
	}
	log.Printf("load item %d: %v", itemID, err)
	writeRejection(w, http.StatusInternalServerError, "storage failure", "/")
}

// rejectOwnershipError distinguishes a denied caller from an item that
// vanished between the load and the check.
func (s *Server) rejectOwnershipError(w http.ResponseWriter, err error, detail string) {
	switch {
	case errors.Is(err, auth.ErrNotAuthorized):
		writeRejection(w, http.StatusUnauthorized, "You are not authorized", detail)
	case errors.Is(err, repository.ErrItemNotFound):
		writeRejection(w, http.StatusNotFound, "Item not found", "/")
	default:
		log.Printf("ownership check: %v", err)
		writeRejection(w, http.StatusInternalServerError, "storage failure", detail)
	}
}

func itemDetailPath(item *models.Item) string {
	return "/category/" + strconv.FormatInt(item.CategoryID, 10) +
		"/item/" + strconv.FormatInt(item.ID, 10)
}

func serializeItems(items []models.Item) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		out = append(out, items[i].Serialize())
	}
	return out
}
