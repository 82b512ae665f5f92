package comments_test

import (
	"net/http"
	"testing"

	"github.com/gazebo-web/forum-server/bundles/comments"
	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	th := testhelpers.CreateThread(t, db, alice, "T1", "B1")
	s := &comments.Service{}

	res, em := s.Create(ctx, db, testhelpers.IdentityOf(alice), th.ID, &comments.CreateCommentInput{Text: "hi"})
	require.Nil(t, em)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	added := res.Payload["addedComment"].(comments.AddedComment)
	assert.Equal(t, "hi", added.Text)

	c := comments.ByID(ctx, db, added.ID)
	require.NotNil(t, c)
	assert.Equal(t, alice.ID, c.UserID)
	assert.Equal(t, th.ID, c.ThreadID)

	_, em = s.Create(ctx, db, testhelpers.IdentityOf(alice), 999, &comments.CreateCommentInput{Text: "hi"})
	require.NotNil(t, em)
	assert.Equal(t, generics.KindNotFound, generics.KindOf(em))
}

func TestDeleteComment(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	th := testhelpers.CreateThread(t, db, alice, "T1", "B1")
	other := testhelpers.CreateThread(t, db, alice, "T2", "B2")
	c := testhelpers.CreateComment(t, db, alice, th, "first")
	testhelpers.CreateComment(t, db, bob, th, "second")
	s := &comments.Service{}

	tests := []struct {
		desc     string
		actor    *users.User
		threadID uint
		id       uint
		kind     generics.Kind
	}{
		{"not the owner", bob, th.ID, c.ID, generics.KindForbidden},
		{"another thread", alice, other.ID, c.ID, generics.KindForbidden},
		{"missing thread", alice, 999, c.ID, generics.KindNotFound},
		{"missing comment", alice, th.ID, 999, generics.KindNotFound},
	}
	for _, test := range tests {
		_, em := s.Delete(ctx, db, testhelpers.IdentityOf(test.actor), test.threadID, test.id)
		require.NotNil(t, em, test.desc)
		assert.Equal(t, test.kind, generics.KindOf(em), test.desc)
	}
	assert.NotNil(t, comments.ByID(ctx, db, c.ID))

	res, em := s.Delete(ctx, db, testhelpers.IdentityOf(alice), th.ID, c.ID)
	require.Nil(t, em)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	remaining := res.Payload["comments"].(comments.CommentResponses)
	require.Len(t, remaining, 1)
	assert.Equal(t, "second", remaining[0].Text)
	assert.Equal(t, "bob", remaining[0].User.Username)
	assert.Nil(t, comments.ByID(ctx, db, c.ID))
}

func TestListComments(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	alice := testhelpers.CreateUser(t, db, "alice")
	th := testhelpers.CreateThread(t, db, alice, "T1", "B1")
	testhelpers.CreateComment(t, db, alice, th, "one")
	testhelpers.CreateComment(t, db, alice, th, "two")

	res, em := (&comments.Service{}).List(ctx, db, th.ID)
	require.Nil(t, em)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	list := res.Payload["comments"].(comments.CommentResponses)
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Text)
	assert.Equal(t, "two", list[1].Text)
}

func TestByThreadFailsSoft(t *testing.T) {
	db := testhelpers.NewMockDB(t)
	testhelpers.FailQueries()

	assert.Empty(t, comments.ByThread(testhelpers.NewContext(), db, 1))
	assert.Nil(t, comments.ByID(testhelpers.NewContext(), db, 1))
}
