// Package view renders HTML templates with a shared layout, partials and a
// common func map. Templates live in the repository's templates/ directory;
// the base directory is auto-detected so handlers and tests work regardless
// of working directory.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/diewo77/concesionaria/internal/auth"
	"github.com/diewo77/concesionaria/internal/i18n"
	"github.com/diewo77/concesionaria/internal/middleware"
)

var (
	baseDir  string
	once     sync.Once
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	// permission resolvers are set by the host app so templates can
	// show/hide admin controls without importing policy types.
	canResolver     func(*http.Request, string, string) bool
	isAdminResolver func(*http.Request) bool
)

// SetCanResolver sets a callback used by templates to check profile-level
// permissions (resource, action).
func SetCanResolver(f func(*http.Request, string, string) bool) {
	if f != nil {
		canResolver = f
	}
}

// SetIsAdminResolver sets a callback used by templates to detect superadmins.
func SetIsAdminResolver(f func(*http.Request) bool) {
	if f != nil {
		isAdminResolver = f
	}
}

// SetBaseDir overrides the template base directory (useful for tests).
func SetBaseDir(path string) {
	if path == "" {
		return
	}
	baseDir = filepath.Clean(path)
	once = sync.Once{}
}

// ResetForTests clears caches and forces base dir detection to rerun.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
	baseDir = ""
	once = sync.Once{}
}

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the shared func map: i18n, money formatting and permission
// checks bound to the current request.
func Funcs(r *http.Request) template.FuncMap {
	lang := middleware.LangFrom(r)
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"can": func(resource, action string) bool {
			if canResolver == nil {
				return false
			}
			return canResolver(r, resource, action)
		},
		"isAdmin": func() bool {
			if isAdminResolver == nil {
				return false
			}
			return isAdminResolver(r)
		},
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"mul":  func(a float64, b int) float64 { return a * float64(b) },
		"year": func() int { return time.Now().Year() },
	}
}

// Render parses and executes a template file with the shared layout and funcs.
// name is the filename relative to the templates dir (e.g. "catalogo.html").
// Common defaults (Year, IsLoggedIn, Flash) are injected when absent.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	if baseDir == "" {
		once.Do(detectBase)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	if _, exists := data["Flash"]; !exists {
		if msg, ok := middleware.PopFlash(w, r); ok {
			data["Flash"] = msg
		}
	}

	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok && t != nil {
			return execute(w, r, t, data)
		}
	}

	mainPath := filepath.Join(baseDir, name)
	if _, err := os.Stat(mainPath); err != nil {
		return err
	}

	t, err := parse(name, mainPath)
	if err != nil {
		return err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return execute(w, r, t, data)
}

// parseFuncs declares the func names templates may reference so parsing
// succeeds without a request in hand. Cached templates carry only these inert
// implementations; execute swaps in the request-bound ones, so a cached
// template never answers with the first renderer's language or permissions.
var parseFuncs = template.FuncMap{
	"t":       func(string) string { return "" },
	"lang":    func() string { return "es" },
	"can":     func(string, string) bool { return false },
	"isAdmin": func() bool { return false },
	"money":   func(float64) string { return "" },
	"mul":     func(float64, int) float64 { return 0 },
	"year":    func() int { return 0 },
}

func parse(name, mainPath string) (*template.Template, error) {
	layoutPath := filepath.Join(baseDir, "layout.html")

	content, err := os.ReadFile(mainPath)
	if err != nil {
		return nil, err
	}
	// Full documents opt out of layout wrapping.
	if bytes.Contains(bytes.ToLower(content), []byte("<!doctype")) {
		return template.New(name).Funcs(parseFuncs).ParseFiles(mainPath)
	}
	if fi, err := os.Stat(layoutPath); err != nil || fi.IsDir() {
		return template.New(name).Funcs(parseFuncs).ParseFiles(mainPath)
	}

	files := []string{layoutPath, mainPath}
	partials, _ := filepath.Glob(filepath.Join(baseDir, "partials", "*.html"))
	files = append(files, partials...)
	return template.New("layout.html").Funcs(parseFuncs).ParseFiles(files...)
}

// execute runs a clone of the cached template with funcs bound to the current
// request. The cached original is never executed directly, which keeps it
// clonable.
func execute(w http.ResponseWriter, r *http.Request, t *template.Template, data map[string]any) error {
	bound, err := t.Clone()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return bound.Funcs(Funcs(r)).Execute(w, data)
}
