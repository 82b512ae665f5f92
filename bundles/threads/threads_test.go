package threads_test

import (
	"net/http"
	"testing"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/likes"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/testhelpers"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(n, limit int64) *gz.PaginationRequest {
	return &gz.PaginationRequest{Page: n, PerPage: limit}
}

func TestCreateThread(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	s := &threads.Service{}

	in := &threads.CreateThreadInput{Title: "T1", Body: "B1"}
	res, em := s.Create(ctx, db, testhelpers.IdentityOf(alice), in)
	require.Nil(t, em)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	first := res.Payload["addedThread"].(threads.AddedThread)
	assert.NotEmpty(t, first.Slug)
	assert.Equal(t, "T1", first.Title)
	assert.Equal(t, "B1", first.Body)

	// Titles are not unique, slugs are.
	res, em = s.Create(ctx, db, testhelpers.IdentityOf(alice), in)
	require.Nil(t, em)
	second := res.Payload["addedThread"].(threads.AddedThread)
	assert.NotEqual(t, first.Slug, second.Slug)

	stored := threads.BySlug(ctx, db, first.Slug)
	require.NotNil(t, stored)
	assert.Equal(t, alice.ID, stored.UserID)
}

func TestOwnerOnlyMutations(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	th := testhelpers.CreateThread(t, db, alice, "T1", "B1")
	s := &threads.Service{}
	upd := &threads.UpdateThreadInput{Title: "new", Body: "body"}

	_, em := s.Get(ctx, db, testhelpers.IdentityOf(bob), th.ID)
	require.NotNil(t, em)
	assert.Equal(t, generics.KindForbidden, generics.KindOf(em))

	_, em = s.Update(ctx, db, testhelpers.IdentityOf(bob), th.ID, upd)
	require.NotNil(t, em)
	assert.Equal(t, generics.KindForbidden, generics.KindOf(em))

	_, em = s.Delete(ctx, db, testhelpers.IdentityOf(bob), th.ID)
	require.NotNil(t, em)
	assert.Equal(t, generics.KindForbidden, generics.KindOf(em))

	// Admins get no bypass on threads.
	admin := testhelpers.CreateAdmin(t, db, "root")
	_, em = s.Delete(ctx, db, testhelpers.IdentityOf(admin), th.ID)
	require.NotNil(t, em)
	assert.Equal(t, generics.KindForbidden, generics.KindOf(em))

	stored := threads.ByID(ctx, db, th.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "T1", *stored.Title)

	res, em := s.Update(ctx, db, testhelpers.IdentityOf(alice), th.ID, upd)
	require.Nil(t, em)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "thread T1 updated", res.Message)
	stored = threads.ByID(ctx, db, th.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "new", *stored.Title)
	assert.Equal(t, "body", *stored.Body)

	res, em = s.Get(ctx, db, testhelpers.IdentityOf(alice), th.ID)
	require.Nil(t, em)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, em = s.Delete(ctx, db, testhelpers.IdentityOf(alice), th.ID)
	require.Nil(t, em)
	assert.Nil(t, threads.ByID(ctx, db, th.ID))

	_, em = s.Delete(ctx, db, testhelpers.IdentityOf(alice), th.ID)
	require.NotNil(t, em)
	assert.Equal(t, generics.KindNotFound, generics.KindOf(em))
}

func TestListPagination(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	t1 := testhelpers.CreateThread(t, db, alice, "one", "1")
	testhelpers.CreateThread(t, db, alice, "two", "2")
	t3 := testhelpers.CreateThread(t, db, alice, "three", "3")
	s := &threads.Service{}

	res, pagination, em := s.List(ctx, db, page(1, 2))
	require.Nil(t, em)
	require.NotNil(t, pagination)
	list := res.Payload["threads"].(threads.ThreadSummaries)
	require.Len(t, list, 2)
	assert.Equal(t, t3.ID, list[0].ID)
	assert.Equal(t, "alice", list[0].User.Username)
	assert.Equal(t, generics.Page{Page: 1, Limit: 2, TotalCount: 3, TotalPages: 2}, res.Payload["pagination"])

	res, _, em = s.List(ctx, db, page(2, 2))
	require.Nil(t, em)
	list = res.Payload["threads"].(threads.ThreadSummaries)
	require.Len(t, list, 1)
	assert.Equal(t, t1.ID, list[0].ID)

	// Beyond the last page.
	res, pagination, em = s.List(ctx, db, page(9, 2))
	require.Nil(t, em)
	assert.Empty(t, res.Payload["threads"])
	assert.Equal(t, generics.Page{Page: 9, Limit: 2, TotalCount: 3, TotalPages: 2}, res.Payload["pagination"])
	assert.False(t, pagination.PageFound)

	// A page whose offset does not fit in an int64 is still beyond the last page.
	res, pagination, em = s.List(ctx, db, page(1<<62, 10))
	require.Nil(t, em)
	assert.Empty(t, res.Payload["threads"])
	assert.Equal(t, generics.Page{Page: 1 << 62, Limit: 10, TotalCount: 3, TotalPages: 1}, res.Payload["pagination"])
	assert.False(t, pagination.PageFound)
}

func TestListCountsOnlyActive(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	th := testhelpers.CreateThread(t, db, alice, "T1", "B1")
	testhelpers.CreateComment(t, db, bob, th, "kept")
	gone := testhelpers.CreateComment(t, db, bob, th, "gone")
	require.NoError(t, db.Delete(gone).Error)
	ls := &likes.Service{}
	_, em := ls.Toggle(ctx, db, testhelpers.IdentityOf(alice), th.ID)
	require.Nil(t, em)
	_, em = ls.Toggle(ctx, db, testhelpers.IdentityOf(bob), th.ID)
	require.Nil(t, em)
	_, em = ls.Toggle(ctx, db, testhelpers.IdentityOf(bob), th.ID)
	require.Nil(t, em)

	res, _, em := (&threads.Service{}).List(ctx, db, page(1, 10))
	require.Nil(t, em)
	list := res.Payload["threads"].(threads.ThreadSummaries)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].CommentCount)
	assert.Equal(t, int64(1), list[0].LikeCount)
}

func TestListByUsernameAndLikes(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	a1 := testhelpers.CreateThread(t, db, alice, "a1", "x")
	testhelpers.CreateThread(t, db, bob, "b1", "x")
	_, em := (&likes.Service{}).Toggle(ctx, db, testhelpers.IdentityOf(bob), a1.ID)
	require.Nil(t, em)
	s := &threads.Service{}

	res, _, em := s.ListByUsername(ctx, db, "alice", page(1, 10))
	require.Nil(t, em)
	list := res.Payload["threads"].(threads.ThreadSummaries)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].Title)

	res, _, em = s.ListLikedBy(ctx, db, "bob", page(1, 10))
	require.Nil(t, em)
	list = res.Payload["threads"].(threads.ThreadSummaries)
	require.Len(t, list, 1)
	assert.Equal(t, a1.ID, list[0].ID)
	assert.Equal(t, int64(1), list[0].LikeCount)

	res, _, em = s.ListLikedBy(ctx, db, "alice", page(1, 10))
	require.Nil(t, em)
	assert.Empty(t, res.Payload["threads"])

	_, _, em = s.ListByUsername(ctx, db, "nobody", page(1, 10))
	require.NotNil(t, em)
	assert.Equal(t, generics.KindNotFound, generics.KindOf(em))
}

func TestDetail(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	th := testhelpers.CreateThread(t, db, alice, "T1", "B1")
	testhelpers.CreateComment(t, db, bob, th, "hello")
	testhelpers.CreateComment(t, db, alice, th, "thanks")
	s := &threads.Service{}

	res, em := s.Detail(ctx, db, *th.Slug)
	require.Nil(t, em)
	detail := res.Payload["thread"].(threads.ThreadDetail)
	assert.Equal(t, "T1", detail.Title)
	assert.Equal(t, "alice", detail.User.Username)
	assert.Equal(t, int64(2), detail.CommentCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "hello", detail.Comments[0].Text)
	assert.Equal(t, "bob", detail.Comments[0].User.Username)

	_, em = s.Detail(ctx, db, "missing")
	require.NotNil(t, em)
	assert.Equal(t, generics.KindNotFound, generics.KindOf(em))
}

func TestListFailsSoft(t *testing.T) {
	db := testhelpers.NewMockDB(t)
	testhelpers.FailQueries()
	ctx := testhelpers.NewContext()

	res, pagination, em := (&threads.Service{}).List(ctx, db, page(1, 10))
	require.Nil(t, em)
	assert.Nil(t, pagination)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, res.Payload["threads"])
	assert.Equal(t, generics.Page{Page: 1, Limit: 10}, res.Payload["pagination"])

	assert.Nil(t, threads.ByID(ctx, db, 1))
	assert.Nil(t, threads.BySlug(ctx, db, "abc"))
}
