package main

import (
	"log/slog"
	"net/http"
	"net/url"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), slog.String("method", method), slog.String("uri", uri))
}

// redirect issues a see-other redirect, optionally carrying a one-shot
// message as a query parameter that the next page displays.
func (app *application) redirect(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		target = target + "?message=" + url.QueryEscape(message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	ts, ok := app.templateCache["server_error.html"]
	if !ok {
		http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
		return
	}

	data := struct{ basePage }{app.newBasePage(r, "Server Error")}

	w.WriteHeader(http.StatusInternalServerError)
	if err := ts.ExecuteTemplate(w, "base", data); err != nil {
		app.logError(r, err)
	}
}

func (app *application) notFoundErrorResponse(w http.ResponseWriter, r *http.Request) {
	data := struct{ basePage }{app.newBasePage(r, "Not Found")}
	app.render(w, r, http.StatusNotFound, "not_found.html", data)
}

func (app *application) methodNotAllowedErrorResponse(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
}
