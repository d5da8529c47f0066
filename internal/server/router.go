// Package server assembles the HTTP routing: public catalog, authenticated
// cart/checkout, and the permission-gated admin surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/diewo77/concesionaria/internal/auth"
	"github.com/diewo77/concesionaria/internal/gate"
	"github.com/diewo77/concesionaria/internal/handlers"
	"github.com/diewo77/concesionaria/internal/httpx"
	"github.com/diewo77/concesionaria/internal/middleware"
	"github.com/diewo77/concesionaria/internal/models"
	"github.com/diewo77/concesionaria/internal/policy"
	"github.com/diewo77/concesionaria/internal/services"
	"github.com/diewo77/concesionaria/internal/store"
	"github.com/diewo77/concesionaria/internal/view"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// RequireAuth drops sessions whose user no longer exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	catalogStore := store.NewCatalogStore(db)
	cartStore := store.NewCartStore(db)
	checkoutSvc := services.NewCheckoutService(db)

	authGate := policy.NewAuthGate(db, 5*time.Minute)
	authGate.RegisterPolicy("purchase", policy.NewOwnershipPolicy())

	// Expose permission checks to templates so the layout can show or hide
	// the admin navigation.
	view.SetCanResolver(func(r *http.Request, resource, action string) bool {
		return authGate.CanProfile(r.Context(), gate.Action(action), resource)
	})
	view.SetIsAdminResolver(func(r *http.Request) bool {
		return authGate.IsAdmin(r.Context())
	})

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Public catalog ---
	catalogHandler := handlers.NewCatalogHandler(catalogStore)
	mux.HandleFunc("GET /{$}", catalogHandler.Index)
	mux.HandleFunc("GET /catalogo", catalogHandler.List)
	mux.HandleFunc("GET /buscar", catalogHandler.Search)
	mux.HandleFunc("GET /autos/{id}", catalogHandler.Detail)
	mux.HandleFunc("GET /contacto", catalogHandler.Contact)
	mux.HandleFunc("POST /contacto", catalogHandler.Contact)

	// --- Authentication ---
	authHandler := handlers.NewAuthHandler(db)
	mux.HandleFunc("GET /login", authHandler.Login)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("GET /registro", authHandler.Register)
	mux.HandleFunc("POST /registro", authHandler.Register)
	mux.HandleFunc("GET /logout", authHandler.Logout)
	mux.HandleFunc("POST /logout", authHandler.Logout)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// --- Cart & checkout ---
	cartHandler := handlers.NewCartHandler(cartStore, catalogStore)
	// Viewing the cart never requires login: anonymous visitors see it empty.
	mux.HandleFunc("GET /carrito", cartHandler.View)
	mux.Handle("POST /carrito/agregar/{id}", requireAuth(http.HandlerFunc(cartHandler.Add)))
	mux.Handle("POST /carrito/eliminar/{id}", requireAuth(http.HandlerFunc(cartHandler.Remove)))

	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc)
	mux.Handle("POST /comprar", requireAuth(http.HandlerFunc(checkoutHandler.Finalize)))

	// --- Purchase history ---
	// Detail goes through the ownership policy: even staff with purchase:view
	// only see their own records.
	purchaseStore := store.NewPurchaseStore(db)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseStore, authGate)
	mux.Handle("GET /compras", requireAuth(http.HandlerFunc(purchaseHandler.List)))
	mux.Handle("GET /compras/{id}", requireAuth(http.HandlerFunc(purchaseHandler.Detail)))
	purchasesGuard := authGate.RequirePermissionOrRedirect("purchase", gate.ActionList, "/")
	mux.Handle("GET /admin/compras", requireAuth(purchasesGuard(http.HandlerFunc(purchaseHandler.AdminList))))

	// --- Admin inventory ---
	// Missing permissions redirect back with a flash, except delete, which is
	// denied outright with 403.
	adminHandler := handlers.NewAdminHandler(catalogStore)
	listGuard := authGate.RequirePermissionOrRedirect("vehicle", gate.ActionList, "/")
	createGuard := authGate.RequirePermissionOrRedirect("vehicle", gate.ActionCreate, "/admin/inventario")
	updateGuard := authGate.RequirePermissionOrRedirect("vehicle", gate.ActionUpdate, "/admin/inventario")
	deleteGuard := authGate.RequirePermission("vehicle", gate.ActionDelete)

	mux.Handle("GET /admin/inventario", requireAuth(listGuard(http.HandlerFunc(adminHandler.Inventory))))
	mux.Handle("GET /admin/autos/nuevo", requireAuth(createGuard(http.HandlerFunc(adminHandler.Create))))
	mux.Handle("POST /admin/autos/nuevo", requireAuth(createGuard(http.HandlerFunc(adminHandler.Create))))
	mux.Handle("GET /admin/autos/{id}", requireAuth(http.HandlerFunc(adminHandler.Detail)))
	mux.Handle("GET /admin/autos/{id}/editar", requireAuth(updateGuard(http.HandlerFunc(adminHandler.Edit))))
	mux.Handle("POST /admin/autos/{id}/editar", requireAuth(updateGuard(http.HandlerFunc(adminHandler.Edit))))
	mux.Handle("POST /admin/autos/{id}/eliminar", requireAuth(deleteGuard(http.HandlerFunc(adminHandler.Delete))))

	c := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	})
	// The session middleware wraps every route so public pages render the
	// logged-in state too; RequireAuth only gates the routes that need it.
	return middleware.Prefs(withRecover(withLogging(c.Handler(auth.Middleware(mux)))))
}

func requireAuth(h http.Handler) http.Handler {
	return auth.RequireAuth(h)
}

// statusWriter captures the response code for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
