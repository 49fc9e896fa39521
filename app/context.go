package main

import (
	"context"
	"net/http"

	"github.com/plokkeri/plok/internal/userservice"
)

type contextKey string

const userContextKey = contextKey("user")

// sessionKeyUserID is the session key holding the logged-in user's id.
const sessionKeyUserID = "authenticatedUserID"

func (app *application) createUserContext(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return &userservice.AnonymousUser
	}
	return user
}
