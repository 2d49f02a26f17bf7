package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed pages/*.html partials/*.html
var files embed.FS

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "KES " + d.StringFixed(2)
	},
	"date": func(t time.Time) string {
		return t.Format("Mon, 2 Jan 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("Mon, 2 Jan 2006 15:04")
	},
}

// Each page file defines a "content" block that the shared layout wraps.
var (
	pages    = map[string]*template.Template{}
	partials *template.Template
)

func init() {
	partials = template.Must(template.New("").Funcs(funcs).ParseFS(files, "partials/*.html"))

	entries, err := files.ReadDir("pages")
	if err != nil {
		panic(fmt.Sprintf("templates: read pages: %v", err))
	}
	for _, e := range entries {
		name := e.Name()
		t := template.New(name).Funcs(funcs)
		t = template.Must(t.ParseFS(files, "partials/*.html", "pages/"+name))
		pages[name] = t
	}
}

// RenderPage renders a full page inside the base layout.
func RenderPage(w io.Writer, name string, data any) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("templates: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// RenderPartial renders a partial by its defined block name, for HTMX
// fragment swaps.
func RenderPartial(w io.Writer, name string, data any) error {
	return partials.ExecuteTemplate(w, name, data)
}
