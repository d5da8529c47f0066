// Package i18n provides a small message catalog. Spanish is the primary
// language of the dealership; English is kept for API consumers.
package i18n

import "strings"

var messages = map[string]map[string]string{
	"es": {
		"nav.catalog":           "Catálogo",
		"nav.cart":              "Carrito",
		"nav.inventory":         "Inventario",
		"nav.login":             "Iniciar sesión",
		"nav.logout":            "Cerrar sesión",
		"catalog.title":         "Catálogo de automóviles",
		"catalog.empty":         "No hay automóviles disponibles en el catálogo.",
		"catalog.not_available": "El automóvil solicitado no está disponible.",
		"search.title":          "Buscar automóvil",
		"cart.title":            "Tu carrito",
		"cart.empty":            "Tu carrito está vacío.",
		"cart.total":            "Total",
		"purchase.title":        "Compra exitosa",
		"purchases.title":       "Mis compras",
		"purchases.empty":       "Aún no has realizado compras.",
		"sales.title":           "Ventas",
		"flash.added_to_cart":   "%s agregado al carrito.",
		"flash.removed_from_cart": "Auto eliminado del carrito.",
		"flash.cart_empty":      "El carrito está vacío.",
		"flash.purchase_success": "¡Compra realizada con éxito!",
		"flash.vehicle_created": "Automóvil %s creado exitosamente.",
		"flash.vehicle_updated": "Automóvil %s actualizado exitosamente.",
		"flash.vehicle_deleted": "Automóvil %s eliminado exitosamente.",
		"flash.form_errors":     "Por favor corrige los errores en el formulario.",
		"flash.no_permission":   "No tienes permiso para realizar esta acción.",
		"contact.success":       "Gracias por tu mensaje, %s.",
	},
	"en": {
		"nav.catalog":           "Catalog",
		"nav.cart":              "Cart",
		"nav.inventory":         "Inventory",
		"nav.login":             "Log in",
		"nav.logout":            "Log out",
		"catalog.title":         "Vehicle catalog",
		"catalog.empty":         "No vehicles available in the catalog.",
		"catalog.not_available": "The requested vehicle is not available.",
		"search.title":          "Search vehicles",
		"cart.title":            "Your cart",
		"cart.empty":            "Your cart is empty.",
		"cart.total":            "Total",
		"purchase.title":        "Purchase complete",
		"purchases.title":       "My purchases",
		"purchases.empty":       "You have not made any purchases yet.",
		"sales.title":           "Sales",
		"flash.added_to_cart":   "%s added to cart.",
		"flash.removed_from_cart": "Vehicle removed from cart.",
		"flash.cart_empty":      "The cart is empty.",
		"flash.purchase_success": "Purchase completed successfully!",
		"flash.vehicle_created": "Vehicle %s created successfully.",
		"flash.vehicle_updated": "Vehicle %s updated successfully.",
		"flash.vehicle_deleted": "Vehicle %s deleted successfully.",
		"flash.form_errors":     "Please fix the errors in the form.",
		"flash.no_permission":   "You do not have permission to perform this action.",
		"contact.success":       "Thanks for your message, %s.",
	},
}

// T returns the message for code in the given language. Unknown codes are
// returned verbatim so missing translations surface in the UI instead of
// rendering blank.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if msg, ok := m[code]; ok {
			return msg
		}
	}
	if msg, ok := messages["es"][code]; ok {
		return msg
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		switch {
		case strings.HasPrefix(tag, "es"):
			return "es"
		case strings.HasPrefix(tag, "en"):
			return "en"
		}
	}
	return "es"
}
