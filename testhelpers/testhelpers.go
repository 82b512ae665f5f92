// Package testhelpers provides databases, contexts and fixtures for tests.
package testhelpers

import (
	"context"
	"testing"

	mocket "github.com/Selvatico/go-mocket"
	"github.com/gazebo-web/forum-server/bundles/comments"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/database"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

// NewContext returns a context carrying a logger that does not report to
// rollbar.
func NewContext() context.Context {
	logger := gz.NewLoggerNoRollbar("test", gz.VerbosityWarning)
	return gz.NewContextWithLogger(context.Background(), logger)
}

// NewSQLiteDB returns a migrated in-memory SQLite database that is closed
// when the test ends.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(NewContext(), db))
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// NewMockDB returns a gorm connection backed by go-mocket. Use
// mocket.Catcher to program query and exec responses.
func NewMockDB(t *testing.T) *gorm.DB {
	t.Helper()
	mocket.Catcher.Register()
	mocket.Catcher.Logging = false
	db, err := gorm.Open(mocket.DriverName, "mock_forum")
	require.NoError(t, err)
	t.Cleanup(func() {
		mocket.Catcher.Reset()
		db.Close()
	})
	return db
}

// FailQueries makes every SELECT on the mock database return an error.
func FailQueries() {
	mocket.Catcher.Reset().NewMock().WithQuery("SELECT").WithQueryException()
}

// FailExecs makes every UPDATE on the mock database return an error.
func FailExecs() {
	mocket.Catcher.Reset().NewMock().WithQuery("UPDATE").WithExecException()
}

// CreateUser creates an active user and returns it.
func CreateUser(t *testing.T, db *gorm.DB, username string) *users.User {
	t.Helper()
	u, em := users.NewUser(NewContext(), db, username, "secret-"+username, false)
	require.Nil(t, em)
	return u
}

// CreateAdmin creates an admin user and returns it.
func CreateAdmin(t *testing.T, db *gorm.DB, username string) *users.User {
	t.Helper()
	u, em := users.NewUser(NewContext(), db, username, "secret-"+username, true)
	require.Nil(t, em)
	return u
}

// IdentityOf returns the request identity of the user.
func IdentityOf(u *users.User) permissions.Identity {
	return permissions.Identity{UserID: u.ID, Username: *u.Username, Admin: u.IsAdmin}
}

// CreateThread creates a thread owned by u.
func CreateThread(t *testing.T, db *gorm.DB, u *users.User, title, body string) *threads.Thread {
	t.Helper()
	slug := threads.NewSlug()
	th := threads.Thread{UserID: u.ID, Slug: &slug, Title: &title, Body: &body}
	require.NoError(t, db.Create(&th).Error)
	return &th
}

// CreateComment creates a comment of u on th.
func CreateComment(t *testing.T, db *gorm.DB, u *users.User, th *threads.Thread, text string) *comments.Comment {
	t.Helper()
	c := comments.Comment{UserID: u.ID, ThreadID: th.ID, Text: &text}
	require.NoError(t, db.Create(&c).Error)
	return &c
}
