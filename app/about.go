package main

import (
	"html/template"
	"net/http"
	"os"

	"github.com/plokkeri/plok/internal/blogservice"
	"github.com/plokkeri/plok/internal/common"
)

type aboutPage struct {
	basePage
	Content template.HTML
}

// aboutHandler serves the project readme as HTML. The rendered markdown is
// cached; the file is only re-read after the cache entry expires.
func (app *application) aboutHandler(w http.ResponseWriter, r *http.Request) {
	content, ok := app.cachedAbout()
	if !ok {
		src, err := os.ReadFile(app.config.AboutFile)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		content, err = blogservice.MarkdownToHTML(string(src))
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		app.cache.Set(common.CacheKeyAboutPage, content)
	}

	data := aboutPage{
		basePage: app.newBasePage(r, "About"),
		Content:  content,
	}

	app.render(w, r, http.StatusOK, "about.html", data)
}

func (app *application) cachedAbout() (template.HTML, bool) {
	v, ok := app.cache.Get(common.CacheKeyAboutPage)
	if !ok {
		return "", false
	}

	content, ok := v.(template.HTML)
	return content, ok
}
