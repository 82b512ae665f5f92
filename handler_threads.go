package main

import (
	"net/http"

	"github.com/gazebo-web/forum-server/bundles/comments"
	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// ThreadList returns a page of active threads, newest first.
// You can request this method with the following cURL request:
//
//	curl -X GET 'http://localhost:8000/api/v1/threads?page=1&limit=10'
func (app *application) ThreadList(p *gz.PaginationRequest, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	return app.threads.List(r.Context(), tx, p)
}

// ThreadsByUser returns a page of the threads of a user.
func (app *application) ThreadsByUser(p *gz.PaginationRequest, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	username, em := readNameVar(r, "username")
	if em != nil {
		return nil, nil, em
	}
	return app.threads.ListByUsername(r.Context(), tx, username, p)
}

// ThreadsLikedByUser returns a page of the threads a user likes.
func (app *application) ThreadsLikedByUser(p *gz.PaginationRequest, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	username, em := readNameVar(r, "username")
	if em != nil {
		return nil, nil, em
	}
	return app.threads.ListLikedBy(r.Context(), tx, username, p)
}

// ThreadCreate creates a new thread owned by the requesting user.
// You can request this method with the following cURL request:
//
//	curl -X POST -H "Content-Type: application/json"
//	  -d '{"title":"T1", "body":"B1"}'
//	  --url http://localhost:8000/api/v1/threads
//	  --header 'authorization: Bearer <A_VALID_TOKEN>'
func (app *application) ThreadCreate(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	var in threads.CreateThreadInput
	if em := app.ParseStruct(&in, r); em != nil {
		return nil, em
	}
	return app.threads.Create(r.Context(), tx, acting(r), &in)
}

// ThreadIndex returns a thread to its owner.
func (app *application) ThreadIndex(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	id, em := readUintVar(r, "id")
	if em != nil {
		return nil, em
	}
	return app.threads.Get(r.Context(), tx, acting(r), id)
}

// ThreadUpdate updates the title and body of a thread.
// You can request this method with the following cURL request:
//
//	curl -X PUT -d '{"title":"New title", "body":"New body"}'
//	  --url http://localhost:8000/api/v1/threads/{id}
//	  --header 'authorization: Bearer <A_VALID_TOKEN>'
func (app *application) ThreadUpdate(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	id, em := readUintVar(r, "id")
	if em != nil {
		return nil, em
	}
	var in threads.UpdateThreadInput
	if em := app.ParseStruct(&in, r); em != nil {
		return nil, em
	}
	return app.threads.Update(r.Context(), tx, acting(r), id, &in)
}

// ThreadRemove soft deletes a thread.
func (app *application) ThreadRemove(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	id, em := readUintVar(r, "id")
	if em != nil {
		return nil, em
	}
	return app.threads.Delete(r.Context(), tx, acting(r), id)
}

// ThreadDetail returns the public view of a thread with its comments.
// You can request this method with the following cURL request:
//
//	curl -X GET http://localhost:8000/api/v1/threads/detail/{slug}
func (app *application) ThreadDetail(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	slug, em := readNameVar(r, "slug")
	if em != nil {
		return nil, em
	}
	return app.threads.Detail(r.Context(), tx, slug)
}

// CommentList returns the active comments of a thread.
func (app *application) CommentList(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	threadID, em := readUintVar(r, "threadId")
	if em != nil {
		return nil, em
	}
	return app.comments.List(r.Context(), tx, threadID)
}

// CommentCreate adds a comment to a thread.
// You can request this method with the following cURL request:
//
//	curl -X POST -d '{"text":"hi"}'
//	  --url http://localhost:8000/api/v1/comments/{threadId}
//	  --header 'authorization: Bearer <A_VALID_TOKEN>'
func (app *application) CommentCreate(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	threadID, em := readUintVar(r, "threadId")
	if em != nil {
		return nil, em
	}
	var in comments.CreateCommentInput
	if em := app.ParseStruct(&in, r); em != nil {
		return nil, em
	}
	return app.comments.Create(r.Context(), tx, acting(r), threadID, &in)
}

// CommentRemove soft deletes a comment of a thread.
func (app *application) CommentRemove(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	threadID, em := readUintVar(r, "threadId")
	if em != nil {
		return nil, em
	}
	commentID, em := readUintVar(r, "commentId")
	if em != nil {
		return nil, em
	}
	return app.comments.Delete(r.Context(), tx, acting(r), threadID, commentID)
}

// LikeToggle likes the thread, or unlikes it if already liked.
// You can request this method with the following cURL request:
//
//	curl -X POST --url http://localhost:8000/api/v1/likes/{threadId}
//	  --header 'authorization: Bearer <A_VALID_TOKEN>'
func (app *application) LikeToggle(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.ErrMsg) {

	threadID, em := readUintVar(r, "threadId")
	if em != nil {
		return nil, em
	}
	return app.likes.Toggle(r.Context(), tx, acting(r), threadID)
}
