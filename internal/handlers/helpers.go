package handlers

import (
	"fmt"
	"net/http"

	"tour-booking-platform/internal/middleware"
	"tour-booking-platform/web/templates"
)

// handleRedirect handles redirects appropriately for HTMX vs regular requests
func handleRedirect(w http.ResponseWriter, r *http.Request, url string, statusCode int) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
	} else {
		http.Redirect(w, r, url, statusCode)
	}
}

// renderPage renders a full page, falling back to a 500 on template errors
func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.RenderPage(w, name, data); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// renderPartial renders an HTMX fragment
func renderPartial(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.RenderPartial(w, name, data); err != nil {
		http.Error(w, "Failed to render fragment", http.StatusInternalServerError)
	}
}

// writeHTMXError writes an inline error fragment for HTMX form targets
func writeHTMXError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, `
		<div class="bg-red-50 border border-red-200 text-red-800 p-4 rounded-lg">
			<p class="text-sm">%s</p>
		</div>
	`, msg)
}

// writeHTMXSuccess writes an inline success fragment for HTMX form targets
func writeHTMXSuccess(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `
		<div class="bg-green-50 border border-green-200 text-green-800 p-4 rounded-lg">
			<p class="text-sm">%s</p>
		</div>
	`, msg)
}

// pageBase carries the fields every page template expects.
type pageBase struct {
	Title         string
	Authenticated bool
	CartCount     int
}

func newPageBase(r *http.Request, title string, cartCount int) pageBase {
	return pageBase{
		Title:         title,
		Authenticated: middleware.GetAuthFromContext(r.Context()) != nil,
		CartCount:     cartCount,
	}
}
