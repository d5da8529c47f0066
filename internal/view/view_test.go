package view_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diewo77/concesionaria/internal/view"
)

func TestRenderBindsPermissionFuncsPerRequest(t *testing.T) {
	dir := t.TempDir()
	page := []byte(`{{if can "vehicle" "delete"}}<a href="/admin">Eliminar</a>{{else}}solo lectura{{end}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inventario.html"), page, 0o644))

	view.ResetForTests()
	view.SetBaseDir(dir)
	t.Cleanup(view.ResetForTests)

	view.SetCanResolver(func(r *http.Request, resource, action string) bool {
		return r.Header.Get("X-Test-Role") == "administrador"
	})

	render := func(role string) string {
		r := httptest.NewRequest(http.MethodGet, "/admin/inventario", nil)
		r.Header.Set("X-Test-Role", role)
		w := httptest.NewRecorder()
		require.NoError(t, view.Render(w, r, "inventario.html", nil))
		return w.Body.String()
	}

	require.Contains(t, render("administrador"), "Eliminar")

	// The second render hits the template cache; it must answer for the
	// current request, not the one that populated the cache.
	body := render("vendedor")
	require.Contains(t, body, "solo lectura")
	require.NotContains(t, body, "Eliminar")
}
