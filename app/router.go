package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/plokkeri/plok/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthCheckHandler)

	// public pages
	router.HandlerFunc(http.MethodGet, "/", app.indexHandler)
	router.HandlerFunc(http.MethodGet, "/articles", app.indexHandler)
	router.HandlerFunc(http.MethodGet, "/about", app.aboutHandler)
	router.HandlerFunc(http.MethodGet, "/blogs", app.blogListHandler)
	router.HandlerFunc(http.MethodGet, "/blogs/:blog", app.blogDetailHandler)
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/article/:article", app.articleDetailHandler)

	// accounts
	router.HandlerFunc(http.MethodGet, "/signup", app.signupFormHandler)
	router.HandlerFunc(http.MethodPost, "/signup", app.signupHandler)
	router.HandlerFunc(http.MethodGet, "/activate", app.activateHandler)
	router.HandlerFunc(http.MethodGet, "/login", app.loginFormHandler)
	router.HandlerFunc(http.MethodPost, "/login", app.loginHandler)
	router.HandlerFunc(http.MethodPost, "/logout", app.requireAuthUser(app.logoutHandler))

	// blogs and articles; writing needs an activated account
	router.HandlerFunc(http.MethodGet, "/create", app.requirePermission(app.blogCreateFormHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/create", app.requirePermission(app.blogCreateHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/update", app.requirePermission(app.blogUpdateFormHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/update", app.requirePermission(app.blogUpdateHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/delete", app.requirePermission(app.blogDeleteFormHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/delete", app.requirePermission(app.blogDeleteHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/create_article", app.requirePermission(app.articleCreateFormHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/create_article", app.requirePermission(app.articleCreateHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/article/:article/update", app.requirePermission(app.articleUpdateFormHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/article/:article/update", app.requirePermission(app.articleUpdateHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/article/:article/delete", app.requirePermission(app.articleDeleteFormHandler, userservice.PermissionWriteBlog))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/article/:article/delete", app.requirePermission(app.articleDeleteHandler, userservice.PermissionWriteBlog))

	// comments; any authenticated user may write them
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/article/:article/comment", app.requireAuthUser(app.commentCreateFormHandler))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/article/:article/comment", app.requireAuthUser(app.commentCreateHandler))
	router.HandlerFunc(http.MethodGet, "/blogs/:blog/article/:article/comment/:id/edit", app.requireAuthUser(app.commentEditFormHandler))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/article/:article/comment/:id/edit", app.requireAuthUser(app.commentEditHandler))
	router.HandlerFunc(http.MethodPost, "/blogs/:blog/article/:article/comment/:id/delete", app.requireAuthUser(app.commentDeleteHandler))

	// users
	router.HandlerFunc(http.MethodGet, "/users", app.requireAuthUser(app.userListHandler))
	router.HandlerFunc(http.MethodGet, "/users/:username", app.userDetailHandler)
	router.HandlerFunc(http.MethodGet, "/users/:username/edit", app.requireAuthUser(app.userUpdateFormHandler))
	router.HandlerFunc(http.MethodPost, "/users/:username/edit", app.requireAuthUser(app.userUpdateHandler))
	router.HandlerFunc(http.MethodGet, "/users/:username/delete", app.requireAuthUser(app.userDeleteFormHandler))
	router.HandlerFunc(http.MethodPost, "/users/:username/delete", app.requireAuthUser(app.userDeleteHandler))
	router.HandlerFunc(http.MethodGet, "/profile", app.requireAuthUser(app.profileHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.sessionManager.LoadAndSave(app.authenticate(router)))))
}
