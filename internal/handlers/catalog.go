// Package handlers contains the HTTP handlers. Each handler renders HTML by
// default and JSON when the client asks for it, following the same
// Accept-header convention throughout.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/concesionaria/internal/httpx"
	"github.com/diewo77/concesionaria/internal/store"
	"github.com/diewo77/concesionaria/internal/validation"
	"github.com/diewo77/concesionaria/internal/view"
)

// CatalogHandler serves the public catalog pages.
type CatalogHandler struct {
	catalog *store.CatalogStore
}

func NewCatalogHandler(catalog *store.CatalogStore) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Index renders the landing page.
func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) {
	if err := view.Render(w, r, "index.html", nil); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// List shows all available vehicles, with an empty-state message when the
// catalog has none.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.catalog.ListAvailable(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_vehicles", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": vehicles, "total": len(vehicles)})
		return
	}
	data := map[string]any{"Vehicles": vehicles}
	if len(vehicles) == 0 {
		data["Mensaje"] = true
	}
	if err := view.Render(w, r, "catalogo.html", data); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// Search filters available vehicles by brand or model substring. An empty
// query yields an empty result set rather than the whole catalog.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": results, "query": query})
		return
	}
	if err := view.Render(w, r, "buscar.html", map[string]any{
		"Resultados": results,
		"Query":      query,
	}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// Detail shows a single available vehicle. Unavailable or missing vehicles
// fall back to the catalog page with a not-available message, hiding
// out-of-stock listings from the public.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := parseID(r.PathValue("id"))
	vehicle, err := h.catalog.GetAvailableByID(r.Context(), id)
	if err == store.ErrNotFound {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusNotFound, "vehicle_not_available", nil)
			return
		}
		if rerr := view.Render(w, r, "catalogo.html", map[string]any{"NoDisponible": true}); rerr != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "detail_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, vehicle)
		return
	}
	if err := view.Render(w, r, "detalle_auto.html", map[string]any{"Auto": vehicle}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// Contact renders the contact form and greets the sender on a valid submit.
func (h *CatalogHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if err := view.Render(w, r, "contacto.html", nil); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}
	name := r.FormValue("nombre")
	email := r.FormValue("correo")
	message := r.FormValue("mensaje")
	v := validation.Violations{}
	validation.Required("nombre", name, v)
	validation.Required("correo", email, v)
	validation.Email("correo", email, v)
	validation.Required("mensaje", message, v)
	if !v.Empty() {
		w.WriteHeader(http.StatusBadRequest)
		if err := view.Render(w, r, "contacto.html", map[string]any{
			"Errors": v,
			"Nombre": name,
			"Correo": email,
		}); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}
	if err := view.Render(w, r, "contacto_exito.html", map[string]any{"Nombre": name}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// parseID converts a path id to uint; malformed input maps to 0, which no
// entity uses, so lookups fail with not-found rather than a parse error page.
func parseID(raw string) uint {
	id, _ := strconv.ParseUint(raw, 10, 64)
	return uint(id)
}
