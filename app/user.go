package main

import (
	"errors"
	"net/http"

	"github.com/plokkeri/plok/internal/common"
	"github.com/plokkeri/plok/internal/userservice"
)

type userForm struct {
	FirstName string
	LastName  string
	Errors    map[string]string
}

type userListPage struct {
	basePage
	Users []userservice.User
}

type userDetailPage struct {
	basePage
	Target  *userservice.User
	CanEdit bool
}

type userFormPage struct {
	basePage
	Target *userservice.User
	Form   userForm
}

type userDeletePage struct {
	basePage
	Target *userservice.User
}

func (app *application) userListHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.userService.ListUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	data := userListPage{
		basePage: app.newBasePage(r, "Users"),
		Users:    users,
	}

	app.render(w, r, http.StatusOK, "user_list.html", data)
}

func (app *application) userDetailHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := app.lookupUser(w, r)
	if !ok {
		return
	}

	app.renderUserDetail(w, r, target)
}

// profileHandler shows the logged-in user's own page.
func (app *application) profileHandler(w http.ResponseWriter, r *http.Request) {
	app.renderUserDetail(w, r, app.getUserContext(r))
}

func (app *application) userUpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := app.lookupUser(w, r)
	if !ok {
		return
	}

	if !userservice.CanEditUser(app.getUserContext(r), target) {
		app.notFoundErrorResponse(w, r)
		return
	}

	form := userForm{
		FirstName: target.FirstName,
		LastName:  target.LastName,
	}

	app.renderUserForm(w, r, http.StatusOK, target, form)
}

func (app *application) userUpdateHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := app.lookupUser(w, r)
	if !ok {
		return
	}

	form := userForm{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
	}

	err := app.userService.UpdateUserName(r.Context(), app.getUserContext(r), target, form.FirstName, form.LastName)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotPermitted):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			form.Errors = err.(common.ValidationError).Errors
			app.renderUserForm(w, r, http.StatusUnprocessableEntity, target, form)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.redirect(w, r, "/users/"+target.Username, "")
}

func (app *application) userDeleteFormHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := app.lookupUser(w, r)
	if !ok {
		return
	}

	if !userservice.CanEditUser(app.getUserContext(r), target) {
		app.notFoundErrorResponse(w, r)
		return
	}

	data := userDeletePage{
		basePage: app.newBasePage(r, "Delete User"),
		Target:   target,
	}

	app.render(w, r, http.StatusOK, "user_delete.html", data)
}

func (app *application) userDeleteHandler(w http.ResponseWriter, r *http.Request) {
	target, ok := app.lookupUser(w, r)
	if !ok {
		return
	}

	actor := app.getUserContext(r)

	err := app.userService.DeleteUser(r.Context(), actor, target)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotPermitted):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Deleting your own account also ends the session.
	if actor.ID == target.ID {
		app.sessionManager.Remove(r.Context(), sessionKeyUserID)
	}

	app.redirect(w, r, "/", "account deleted")
}

func (app *application) lookupUser(w http.ResponseWriter, r *http.Request) (*userservice.User, bool) {
	username := app.readParam(r, "username")

	target, err := app.userService.GetUserByUsername(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrNotFound):
			app.notFoundErrorResponse(w, r)
		case errors.As(err, &common.ValidationError{}):
			app.notFoundErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}

	return target, true
}

func (app *application) renderUserDetail(w http.ResponseWriter, r *http.Request, target *userservice.User) {
	data := userDetailPage{
		basePage: app.newBasePage(r, target.Username),
		Target:   target,
		CanEdit:  userservice.CanEditUser(app.getUserContext(r), target),
	}

	app.render(w, r, http.StatusOK, "user_detail.html", data)
}

func (app *application) renderUserForm(w http.ResponseWriter, r *http.Request, status int, target *userservice.User, form userForm) {
	data := userFormPage{
		basePage: app.newBasePage(r, "Edit User"),
		Target:   target,
		Form:     form,
	}
	app.render(w, r, status, "user_update.html", data)
}
