package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// ErrorHandlingMiddleware recovers panicking handlers. HTMX requests
// get an inline fragment their form target can swap in; full page
// loads get a plain 500.
func ErrorHandlingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())

				if IsHTMXRequest(r) {
					w.Header().Set("Content-Type", "text/html")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`
		<div class="bg-red-50 border border-red-200 text-red-800 p-4 rounded-lg">
			<p class="text-sm">Something went wrong. Please try again.</p>
		</div>
	`))
				} else {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// NotFoundHandler serves unmatched routes.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)

		if IsHTMXRequest(r) {
			w.Write([]byte(`
		<div class="bg-red-50 border border-red-200 text-red-800 p-4 rounded-lg">
			<p class="text-sm">Page Not Found. <a href="/tours" class="underline">Browse tours</a> instead?</p>
		</div>
	`))
			return
		}

		w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Page Not Found - TourHub</title>
    <link href="/static/css/output.css" rel="stylesheet">
</head>
<body class="bg-gray-50 min-h-screen">
    <main class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-24 text-center">
        <p class="text-5xl font-bold text-primary-600 mb-4">404</p>
        <h1 class="text-2xl font-semibold text-gray-900 mb-2">Page Not Found</h1>
        <p class="text-gray-600 mb-8">That page may have moved, or the tour it pointed at is no longer listed.</p>
        <div class="space-x-4">
            <a href="/tours" class="bg-primary-600 hover:bg-primary-700 text-white px-4 py-2 rounded-lg">Browse tours</a>
            <a href="/" class="text-gray-700 hover:text-primary-600">Back home</a>
        </div>
    </main>
</body>
</html>
`))
	})
}
