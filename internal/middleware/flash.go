package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/concesionaria/internal/i18n"
)

// FlashMessage is a one-shot notification carried across a redirect in a
// cookie and consumed by the next rendered page.
type FlashMessage struct {
	Level   string // success, info, error
	Message string
}

const flashCookie = "flash"

// Flash sets a translated flash message for the next page. code is an i18n
// message code; args are applied with Sprintf when the message is a format
// string (e.g. a vehicle label).
func Flash(w http.ResponseWriter, r *http.Request, level, code string, args ...any) {
	msg := i18n.T(LangFrom(r), code)
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(level + "|" + msg),
		Path:  "/",
	})
}

// PopFlash returns the pending flash message, if any, and clears the cookie.
func PopFlash(w http.ResponseWriter, r *http.Request) (FlashMessage, bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return FlashMessage{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return FlashMessage{}, false
	}
	level, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return FlashMessage{Level: "info", Message: raw}, true
	}
	return FlashMessage{Level: level, Message: msg}, true
}
