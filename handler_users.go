package main

import (
	"net/http"
	"time"

	"github.com/gazebo-web/forum-server/bundles/auth"
	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Login checks the given credentials and returns a new token. The token is
// also set as a cookie.
// You can request this method with the following cURL request:
//
//	curl -X POST -H "Content-Type: application/json"
//	  -d '{"username":"alice", "password":"secret"}'
//	  http://localhost:8000/api/v1/auth/login
func (app *application) Login(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	var in auth.LoginInput
	if em := app.ParseStruct(&in, r); em != nil {
		return nil, em
	}

	result, session, em := auth.Login(r.Context(), tx, app.issuer, &in)
	if em != nil {
		return nil, em
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return result, nil
}

// Logout clears the token cookie.
// You can request this method with the following cURL request:
//
//	curl -X POST http://localhost:8000/api/v1/auth/logout
func (app *application) Logout(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	res := generics.OK()
	res.Message = "logged out"
	return res, nil
}

// Me returns the identity associated with the request token.
// You can request this method with the following cURL request:
//
//	curl -X GET http://localhost:8000/api/v1/auth/me
//	  --header 'authorization: Bearer <A_VALID_TOKEN>'
func (app *application) Me(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	return auth.Me(acting(r)), nil
}

// UserCreate registers a new user
// You can request this method with the following cURL request:
//
//	curl -X POST -H "Content-Type: application/json"
//	  -d '{"username":"alice", "password":"secret"}'
//	  http://localhost:8000/api/v1/users
func (app *application) UserCreate(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	var in users.RegisterInput
	if em := app.ParseStruct(&in, r); em != nil {
		return nil, em
	}
	return users.Register(r.Context(), tx, &in)
}

// UserList returns a page of non admin accounts, including deactivated ones.
func (app *application) UserList(p *gz.PaginationRequest, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	return users.UserList(r.Context(), p, tx)
}

// UserIndex returns the requesting user's account.
// You can request this method with the following cURL request:
//
//	curl -X GET http://localhost:8000/api/v1/users/{id}
//	  --header 'authorization: Bearer <A_VALID_TOKEN>'
func (app *application) UserIndex(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	id, em := readUintVar(r, "id")
	if em != nil {
		return nil, em
	}
	return users.GetUser(r.Context(), tx, acting(r), id)
}

// UserUpdate updates the username and/or password of the requesting user.
// You can request this method with the following cURL request:
//
//	curl -X PUT -d '{"username":"alice2"}'
//	  --url http://localhost:8000/api/v1/users
//	  --header 'authorization: Bearer <A_VALID_TOKEN>'
func (app *application) UserUpdate(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	var uu users.UpdateUserInput
	if em := app.ParseStruct(&uu, r); em != nil {
		return nil, em
	}
	return users.UpdateUser(r.Context(), tx, acting(r), &uu)
}

// UserRemove deactivates an account and all its content.
// You can request this method with the following cURL request:
//
//	curl -X DELETE --url http://localhost:8000/api/v1/users/{id}
//	  --header 'authorization: Bearer <AN_ADMIN_TOKEN>'
func (app *application) UserRemove(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	id, em := readUintVar(r, "id")
	if em != nil {
		return nil, em
	}
	return app.accounts.Remove(r.Context(), tx, id)
}

// UserActivate reactivates a deactivated account.
// You can request this method with the following cURL request:
//
//	curl -X POST --url http://localhost:8000/api/v1/users/{username}/active
//	  --header 'authorization: Bearer <AN_ADMIN_TOKEN>'
func (app *application) UserActivate(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	username, em := readNameVar(r, "username")
	if em != nil {
		return nil, em
	}
	return app.accounts.Activate(r.Context(), tx, username)
}
