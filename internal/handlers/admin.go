package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/concesionaria/internal/httpx"
	"github.com/diewo77/concesionaria/internal/middleware"
	"github.com/diewo77/concesionaria/internal/models"
	"github.com/diewo77/concesionaria/internal/store"
	"github.com/diewo77/concesionaria/internal/validation"
	"github.com/diewo77/concesionaria/internal/view"
)

// AdminHandler serves the inventory management surface. Route-level permission
// middleware runs before any of these; the handlers only do the work.
type AdminHandler struct {
	catalog *store.CatalogStore
}

func NewAdminHandler(catalog *store.CatalogStore) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// Inventory lists the complete inventory (available and not) with counts.
func (h *AdminHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	vehicles, counts, err := h.catalog.ListAll(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "inventory_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"items":       vehicles,
			"total":       counts.Total,
			"available":   counts.Available,
			"unavailable": counts.Unavailable,
		})
		return
	}
	if err := view.Render(w, r, "inventario.html", map[string]any{
		"Vehicles":    vehicles,
		"Total":       counts.Total,
		"Available":   counts.Available,
		"Unavailable": counts.Unavailable,
	}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// Detail shows a vehicle regardless of availability, for logged-in staff.
func (h *AdminHandler) Detail(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.catalog.GetByID(r.Context(), parseID(r.PathValue("id")))
	if err == store.ErrNotFound {
		http.NotFound(w, r)
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
	if err := view.Render(w, r, "detalle_admin.html", map[string]any{"Auto": vehicle}); err != nil {
		http.Error(w, "template render error", http.StatusInternalServerError)
	}
}

// vehicleForm parses and validates the create/edit form. Availability is not
// part of the form: it is derived from quantity at the store layer.
func vehicleForm(r *http.Request) (brand, model string, price float64, quantity int, v validation.Violations) {
	brand = r.FormValue("brand")
	model = r.FormValue("model")
	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)
	quantity, qtyErr := strconv.Atoi(r.FormValue("quantity"))

	v = validation.Violations{}
	validation.Required("brand", brand, v)
	validation.Required("model", model, v)
	if priceErr != nil {
		v["price"] = "invalid_number"
	} else {
		validation.NonNegativeFloat("price", price, v)
	}
	if qtyErr != nil {
		v["quantity"] = "invalid_number"
	} else {
		validation.NonNegativeInt("quantity", quantity, v)
	}
	return
}

// Create renders the new-vehicle form on GET and persists on POST,
// re-rendering the form with field errors when validation fails.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if err := view.Render(w, r, "crear_automovil.html", nil); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	brand, model, price, quantity, v := vehicleForm(r)
	if !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		if err := view.Render(w, r, "crear_automovil.html", map[string]any{
			"Errors": v,
			"Form":   map[string]any{"Brand": brand, "Model": model},
		}); err != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	vehicle := models.Vehicle{Brand: brand, Model: model, Price: price, Quantity: quantity}
	if err := h.catalog.Create(r.Context(), &vehicle); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "vehicle_create_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, vehicle)
		return
	}
	middleware.Flash(w, r, "success", "flash.vehicle_created", vehicle.Label())
	http.Redirect(w, r, "/admin/inventario", http.StatusSeeOther)
}

// Edit renders the edit form on GET and persists on POST.
func (h *AdminHandler) Edit(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.catalog.GetByID(r.Context(), parseID(r.PathValue("id")))
	if err == store.ErrNotFound {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "detail_failed", nil)
		return
	}

	if r.Method == http.MethodGet {
		if rerr := view.Render(w, r, "editar_automovil.html", map[string]any{"Auto": vehicle}); rerr != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	brand, model, price, quantity, v := vehicleForm(r)
	if !v.Empty() {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		if rerr := view.Render(w, r, "editar_automovil.html", map[string]any{
			"Errors": v,
			"Auto":   vehicle,
		}); rerr != nil {
			http.Error(w, "template render error", http.StatusInternalServerError)
		}
		return
	}

	vehicle.Brand = brand
	vehicle.Model = model
	vehicle.Price = price
	vehicle.Quantity = quantity
	if err := h.catalog.Update(r.Context(), vehicle); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "vehicle_update_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, vehicle)
		return
	}
	middleware.Flash(w, r, "success", "flash.vehicle_updated", vehicle.Label())
	http.Redirect(w, r, "/admin/inventario", http.StatusSeeOther)
}

// Delete removes a vehicle permanently. The permission middleware in front of
// this route hard-denies with 403 instead of redirecting.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.catalog.GetByID(r.Context(), parseID(r.PathValue("id")))
	if err == store.ErrNotFound {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "detail_failed", nil)
		return
	}

	if err := h.catalog.Delete(r.Context(), vehicle.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "vehicle_delete_failed", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": vehicle.ID})
		return
	}
	middleware.Flash(w, r, "success", "flash.vehicle_deleted", vehicle.Label())
	http.Redirect(w, r, "/admin/inventario", http.StatusSeeOther)
}
