package main

import (
	"net/http"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/gorilla/mux"
)

const apiPrefix = "/api/v1"

// access is the authentication required by a route method.
type access int

const (
	// public methods need no token.
	public access = iota
	// member methods need a valid token of an active user.
	member
)

// Route describes an URI and the methods it serves.
type Route struct {
	Name        string
	Description string
	URI         string
	Methods     []Method
}

// Method describes an HTTP method of a Route. Methods with member access are
// authorized against Resource and Action.
type Method struct {
	Type        string
	Description string
	Access      access
	Resource    string
	Action      permissions.Action
	Handler     handlerFn
}

// routes declares the API.
func (app *application) routes() []Route {
	return []Route{

		//////////
		// Auth //
		//////////

		{
			"Login", "Exchange credentials for a token", "/auth/login",
			[]Method{
				{"POST", "Login", public, "", permissions.Read, app.Login},
			},
		},
		{
			"Logout", "Clear the token cookie", "/auth/logout",
			[]Method{
				{"POST", "Logout", public, "", permissions.Read, app.Logout},
			},
		},
		{
			"Me", "Identity of the token", "/auth/me",
			[]Method{
				{"GET", "Get the request identity", member, permissions.ResourceProfile, permissions.Read, app.Me},
			},
		},

		///////////
		// Users //
		///////////

		{
			"Users", "User accounts", "/users",
			[]Method{
				// swagger:route GET /users users listUsers
				//
				// Get a page of non admin accounts. Admin only.
				{"GET", "List accounts", member, permissions.ResourceAccounts, permissions.Read,
					PaginationHandler(app.UserList)},
				{"POST", "Register", public, "", permissions.Write, app.UserCreate},
				{"PUT", "Update own account", member, permissions.ResourceProfile, permissions.Write, app.UserUpdate},
			},
		},
		{
			"User", "A user account", "/users/{id:[0-9]+}",
			[]Method{
				{"GET", "Get own account", member, permissions.ResourceProfile, permissions.Read, app.UserIndex},
				// swagger:route DELETE /users/{id} users removeUser
				//
				// Deactivate an account and all its threads, comments and
				// likes. Admin only.
				{"DELETE", "Deactivate account", member, permissions.ResourceAccounts, permissions.Write, app.UserRemove},
			},
		},
		{
			"UserActive", "Reactivation of an account", "/users/{username}/active",
			[]Method{
				{"POST", "Reactivate account", member, permissions.ResourceAccounts, permissions.Write, app.UserActivate},
			},
		},

		/////////////
		// Threads //
		/////////////

		{
			"Threads", "Forum threads", "/threads",
			[]Method{
				{"GET", "List threads", public, "", permissions.Read, PaginationHandler(app.ThreadList)},
				{"POST", "Create thread", member, permissions.ResourceThreads, permissions.Write, app.ThreadCreate},
			},
		},
		{
			"Thread", "A thread of the requesting user", "/threads/{id:[0-9]+}",
			[]Method{
				{"GET", "Get thread", member, permissions.ResourceThreads, permissions.Read, app.ThreadIndex},
				{"PUT", "Update thread", member, permissions.ResourceThreads, permissions.Write, app.ThreadUpdate},
				{"DELETE", "Delete thread", member, permissions.ResourceThreads, permissions.Write, app.ThreadRemove},
			},
		},
		{
			"ThreadsByUser", "Threads of a user", "/threads/by/{username}",
			[]Method{
				{"GET", "List threads of a user", member, permissions.ResourceThreads, permissions.Read,
					PaginationHandler(app.ThreadsByUser)},
			},
		},
		{
			"ThreadsLikedByUser", "Threads liked by a user", "/threads/by/{username}/likes",
			[]Method{
				{"GET", "List threads liked by a user", member, permissions.ResourceLikes, permissions.Read,
					PaginationHandler(app.ThreadsLikedByUser)},
			},
		},
		{
			"ThreadDetail", "Public thread detail", "/threads/detail/{slug}",
			[]Method{
				{"GET", "Get thread detail", public, "", permissions.Read, app.ThreadDetail},
			},
		},

		//////////////
		// Comments //
		//////////////

		{
			"Comments", "Comments of a thread", "/comments/{threadId:[0-9]+}",
			[]Method{
				{"GET", "List comments", public, "", permissions.Read, app.CommentList},
				{"POST", "Create comment", member, permissions.ResourceComments, permissions.Write, app.CommentCreate},
			},
		},
		{
			"Comment", "A comment of a thread", "/comments/{threadId:[0-9]+}/{commentId:[0-9]+}",
			[]Method{
				{"DELETE", "Delete comment", member, permissions.ResourceComments, permissions.Write, app.CommentRemove},
			},
		},

		///////////
		// Likes //
		///////////

		{
			"Likes", "Like toggle", "/likes/{threadId:[0-9]+}",
			[]Method{
				{"POST", "Toggle like", member, permissions.ResourceLikes, permissions.Write, app.LikeToggle},
			},
		},
	}
}

// newRouter creates the router with all the API routes. Every request goes
// through the access log. Member methods are authenticated and authorized
// before the request transaction is opened.
func (app *application) newRouter() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix(apiPrefix).Subrouter()
	for _, route := range app.routes() {
		for _, m := range route.Methods {
			h := app.JSONResult(m.Handler)
			if m.Access == member {
				h = app.authenticate(app.authorize(m.Resource, m.Action, h))
			}
			api.Handle(route.URI, h).Methods(m.Type).Name(route.Name + m.Type)
		}
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, r, gz.NewErrorMessageWithArgs(gz.ErrorNameNotFound, nil, []string{r.URL.Path}))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := generics.Fail(gz.NewErrorMessageWithArgs(gz.ErrorNameNotFound, nil, []string{r.Method + " " + r.URL.Path}))
		res.StatusCode = http.StatusMethodNotAllowed
		if err := writeResult(w, res); err != nil {
			gz.LoggerFromContext(r.Context()).Error("Error writing response: ", err)
		}
	})
	return app.accessLog(router)
}
