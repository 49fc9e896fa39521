package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"
)

//go:embed templates
var templateFS embed.FS

// basePage carries the fields every page template needs. Page data structs
// embed it.
type basePage struct {
	Title           string
	Message         string
	IsAuthenticated bool
	IsStaff         bool
	Username        string
}

func (app *application) newBasePage(r *http.Request, title string) basePage {
	page := basePage{
		Title:   title,
		Message: r.URL.Query().Get("message"),
	}

	user := app.getUserContext(r)
	if !user.IsAnonymous() {
		page.IsAuthenticated = true
		page.IsStaff = user.IsStaff
		page.Username = user.Username
	}

	return page
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02 Jan 2006 at 15:04")
}

var functions = template.FuncMap{
	"humanDate": humanDate,
}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.New(name).Funcs(functions).ParseFS(templateFS, "templates/base.html", "templates/partials/*.html", page)
		if err != nil {
			return nil, err
		}

		cache[name] = ts
	}

	return cache, nil
}

// render writes the page to a buffer first so a template error can still
// become a clean 500 instead of a half-written response.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.serverErrorResponse(w, r, fmt.Errorf("template %q does not exist", page))
		return
	}

	buf := new(bytes.Buffer)

	err := ts.ExecuteTemplate(buf, "base", data)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
