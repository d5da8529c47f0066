package handlers

import (
	"net/http"

	"github.com/diewo77/concesionaria/internal/auth"
	"github.com/diewo77/concesionaria/internal/httpx"
	"github.com/diewo77/concesionaria/internal/middleware"
	"github.com/diewo77/concesionaria/internal/models"
	"github.com/diewo77/concesionaria/internal/store"
	"github.com/diewo77/concesionaria/internal/view"
)

// CartHandler serves the shopping cart routes.
type CartHandler struct {
	carts   *store.CartStore
	catalog *store.CatalogStore
}

func NewCartHandler(carts *store.CartStore, catalog *store.CatalogStore) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog}
}

// Add puts an available vehicle in the user's active cart, creating the cart
// on first use. Unavailable or missing vehicles are a 404.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	vehicle, err := h.catalog.GetAvailableByID(r.Context(), parseID(r.PathValue("id")))
	if err == store.ErrNotFound {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusNotFound, "vehicle_not_available", nil)
			return
		}
		http.NotFound(w, r)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "add_to_cart_failed", nil)
		return
	}

	cart, err := h.carts.GetOrCreateActiveCart(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "add_to_cart_failed", nil)
		return
	}
	item, err := h.carts.AddItem(r.Context(), cart, vehicle)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "add_to_cart_failed", nil)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, item)
		return
	}
	middleware.Flash(w, r, "success", "flash.added_to_cart", vehicle.Label())
	http.Redirect(w, r, "/catalogo", http.StatusSeeOther)
}

// View shows the cart's contents and total. Anonymous visitors see an empty
// cart instead of being redirected to login.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	userID, loggedIn := auth.UserIDFromContext(r.Context())

	var cart *models.Cart
	items := []models.CartItem{}
	var total float64
	if loggedIn {
		var err error
		cart, err = h.carts.ActiveCart(r.Context(), userID)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "cart_load_failed", nil)
			return
		}
		if cart != nil {
			items = cart.Items
			total = cart.Total()
		}
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
		return
	}
	if err := view.Render(w, r, "carrito.html", map[string]any{
		"Carrito": cart,
		"Items":   items,
		"Total":   total,
	}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// Remove deletes a line item from the user's active cart. Items that do not
// exist or belong to another user's cart are a 404, never a silent success.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	err := h.carts.RemoveItem(r.Context(), parseID(r.PathValue("id")), userID)
	if err == store.ErrNotFound {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusNotFound, "item_not_found", nil)
			return
		}
		http.NotFound(w, r)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "remove_item_failed", nil)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": true})
		return
	}
	middleware.Flash(w, r, "info", "flash.removed_from_cart")
	http.Redirect(w, r, "/carrito", http.StatusSeeOther)
}
