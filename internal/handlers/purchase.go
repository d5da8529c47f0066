package handlers

import (
	"net/http"

	"github.com/diewo77/concesionaria/internal/auth"
	"github.com/diewo77/concesionaria/internal/gate"
	"github.com/diewo77/concesionaria/internal/httpx"
	"github.com/diewo77/concesionaria/internal/policy"
	"github.com/diewo77/concesionaria/internal/store"
	"github.com/diewo77/concesionaria/internal/view"
)

// PurchaseHandler serves the purchase history pages.
type PurchaseHandler struct {
	purchases *store.PurchaseStore
	gate      *policy.AuthGate
}

func NewPurchaseHandler(purchases *store.PurchaseStore, g *policy.AuthGate) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, gate: g}
}

// List shows the current user's purchases, newest first.
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	purchases, err := h.purchases.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purchases_load_failed", nil)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, purchases)
		return
	}
	if err := view.Render(w, r, "compras.html", map[string]any{"Compras": purchases}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// Detail shows a single purchase with its line items. A buyer always sees
// their own record; anyone else must clear the gate, where the ownership
// policy keeps purchases private even from staff holding purchase:view.
// Denied lookups are a 404 so references stay unguessable.
func (h *PurchaseHandler) Detail(w http.ResponseWriter, r *http.Request) {
	purchase, err := h.purchases.GetByID(r.Context(), parseID(r.PathValue("id")))
	if err == store.ErrNotFound {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusNotFound, "purchase_not_found", nil)
			return
		}
		http.NotFound(w, r)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purchase_load_failed", nil)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	if purchase.UserID != userID && !h.gate.Can(r.Context(), gate.ActionView, "purchase", purchase) {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusNotFound, "purchase_not_found", nil)
			return
		}
		http.NotFound(w, r)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, purchase)
		return
	}
	if err := view.Render(w, r, "detalle_compra.html", map[string]any{"Compra": purchase}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// AdminList shows every purchase for staff reporting. The route guard already
// checked purchase:list; no single record is involved, so the ownership
// policy does not apply here.
func (h *PurchaseHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchases.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "purchases_load_failed", nil)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, purchases)
		return
	}
	if err := view.Render(w, r, "ventas.html", map[string]any{"Compras": purchases}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}
