package handlers

import (
	"net/http"

	"github.com/diewo77/concesionaria/internal/auth"
	"github.com/diewo77/concesionaria/internal/httpx"
	"github.com/diewo77/concesionaria/internal/middleware"
	"github.com/diewo77/concesionaria/internal/services"
	"github.com/diewo77/concesionaria/internal/view"
)

// CheckoutHandler drives the cart-to-purchase transition.
type CheckoutHandler struct {
	checkout *services.CheckoutService
}

func NewCheckoutHandler(checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Finalize converts the user's active cart into a purchase. An empty cart
// redirects back with an error flash; success renders the confirmation page.
func (h *CheckoutHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	purchase, err := h.checkout.Finalize(r.Context(), userID)
	if err == services.ErrEmptyCart {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusConflict, "cart_empty", nil)
			return
		}
		middleware.Flash(w, r, "error", "flash.cart_empty")
		http.Redirect(w, r, "/carrito", http.StatusSeeOther)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "checkout_failed", nil)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, purchase)
		return
	}
	// The confirmation page carries its own success notice; a flash here
	// would only pop on whatever page the user visits next.
	if err := view.Render(w, r, "compra_exitosa.html", map[string]any{"Compra": purchase}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}
