package main

import (
	"errors"
	"net/http"

	"github.com/plokkeri/plok/internal/common"
	"github.com/plokkeri/plok/internal/userservice"
)

type signupForm struct {
	Username string
	Email    string
	Errors   map[string]string
}

type signupPage struct {
	basePage
	Form signupForm
}

type loginForm struct {
	Username string
	Errors   map[string]string
}

type loginPage struct {
	basePage
	Form loginForm
}

func (app *application) signupFormHandler(w http.ResponseWriter, r *http.Request) {
	data := signupPage{basePage: app.newBasePage(r, "Sign Up")}
	app.render(w, r, http.StatusOK, "signup.html", data)
}

func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	form := signupForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
	}

	_, err := app.userService.CreateUser(r.Context(), form.Username, form.Email, r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateUsername):
			form.Errors = map[string]string{"username": "this username is already taken"}
			app.renderSignupForm(w, r, form)
		case errors.Is(err, userservice.ErrDuplicateEmail):
			form.Errors = map[string]string{"email": "a user with this email address already exists"}
			app.renderSignupForm(w, r, form)
		case errors.As(err, &common.ValidationError{}):
			form.Errors = err.(common.ValidationError).Errors
			app.renderSignupForm(w, r, form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/login", "check your email for the activation link")
}

// activateHandler consumes the token from the emailed link. Activation also
// grants the permission to write blogs and articles.
func (app *application) activateHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	err := app.userService.ActivateUser(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/login", "account activated, you can now log in")
}

func (app *application) loginFormHandler(w http.ResponseWriter, r *http.Request) {
	data := loginPage{basePage: app.newBasePage(r, "Log In")}
	app.render(w, r, http.StatusOK, "login.html", data)
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Username: r.PostFormValue("username")}

	user, err := app.userService.AuthenticateUser(r.Context(), form.Username, r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAuthenticationFailure),
			errors.Is(err, userservice.ErrNotFound):
			form.Errors = map[string]string{"generic": "username or password is incorrect"}
			app.renderLoginForm(w, r, form)
		case errors.As(err, &common.ValidationError{}):
			form.Errors = map[string]string{"generic": "username or password is incorrect"}
			app.renderLoginForm(w, r, form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Rotate the session token on privilege change.
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sessionManager.Put(r.Context(), sessionKeyUserID, user.ID)

	app.redirect(w, r, "/", "")
}

func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	err := app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sessionManager.Remove(r.Context(), sessionKeyUserID)

	app.redirect(w, r, "/", "you have been logged out")
}

func (app *application) renderSignupForm(w http.ResponseWriter, r *http.Request, form signupForm) {
	data := signupPage{
		basePage: app.newBasePage(r, "Sign Up"),
		Form:     form,
	}
	app.render(w, r, http.StatusUnprocessableEntity, "signup.html", data)
}

func (app *application) renderLoginForm(w http.ResponseWriter, r *http.Request, form loginForm) {
	data := loginPage{
		basePage: app.newBasePage(r, "Log In"),
		Form:     form,
	}
	app.render(w, r, http.StatusUnprocessableEntity, "login.html", data)
}
