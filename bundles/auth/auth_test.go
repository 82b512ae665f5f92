package auth

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/forum-server/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.URLEncoding.EncodeToString([]byte("forum-test-secret"))

func newTestIssuer(t *testing.T) *Issuer {
	i, err := NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	return i
}

func TestNewIssuer(t *testing.T) {
	_, err := NewIssuer("not base64!", time.Hour)
	assert.Error(t, err)
	_, err = NewIssuer("", time.Hour)
	assert.Error(t, err)

	i, err := NewIssuer(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, i.ttl)
}

func TestIssueVerify(t *testing.T) {
	i := newTestIssuer(t)
	token, exp, err := i.Issue(7, "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := i.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt)
}

func TestVerifyRejects(t *testing.T) {
	i := newTestIssuer(t)

	other, err := NewIssuer(base64.URLEncoding.EncodeToString([]byte("another-secret")), time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue(7, "alice")
	require.NoError(t, err)
	_, err = i.Verify(foreign)
	assert.Error(t, err, "foreign key")

	i.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := i.Issue(7, "alice")
	require.NoError(t, err)
	i.now = time.Now
	_, err = i.Verify(expired)
	assert.Error(t, err, "expired")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, Username: "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = i.Verify(none)
	assert.Error(t, err, "alg none")

	anonymous, _, err := i.Issue(0, "")
	require.NoError(t, err)
	_, err = i.Verify(anonymous)
	assert.Error(t, err, "no identity")

	_, err = i.Verify("garbage")
	assert.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	id := permissions.Identity{UserID: 3, Username: "bob"}
	got, ok := IdentityFrom(WithIdentity(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestLogin(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	i := newTestIssuer(t)
	alice := testhelpers.CreateUser(t, db, "alice")

	_, _, em := Login(ctx, db, i, &LoginInput{Username: "alice", Password: "wrong"})
	require.NotNil(t, em)
	assert.Equal(t, generics.KindUnauthenticated, generics.KindOf(em))

	_, _, em = Login(ctx, db, i, &LoginInput{Username: "nobody", Password: "wrong"})
	require.NotNil(t, em)
	assert.Equal(t, generics.KindUnauthenticated, generics.KindOf(em))

	res, session, em := Login(ctx, db, i, &LoginInput{Username: "alice", Password: "secret-alice"})
	require.Nil(t, em)
	assert.Equal(t, session.Token, res.Payload["token"])

	u := users.ByID(ctx, db, alice.ID)
	require.NotNil(t, u)
	require.NotNil(t, u.TokenExpiresAt)
	assert.Equal(t, session.ExpiresAt.Unix(), u.TokenExpiresAt.Unix())

	id, em := Authenticate(ctx, db, i, session.Token)
	require.Nil(t, em)
	assert.Equal(t, permissions.Identity{UserID: alice.ID, Username: "alice"}, id)
}

func TestAuthenticate(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	ctx := testhelpers.NewContext()
	i := newTestIssuer(t)
	admin := testhelpers.CreateAdmin(t, db, "root")
	alice := testhelpers.CreateUser(t, db, "alice")

	token, _, err := i.Issue(admin.ID, "root")
	require.NoError(t, err)
	id, em := Authenticate(ctx, db, i, token)
	require.Nil(t, em)
	assert.True(t, permissions.IsAdmin(id))

	_, em = Authenticate(ctx, db, i, "")
	require.NotNil(t, em)
	assert.Equal(t, generics.KindUnauthenticated, generics.KindOf(em))

	// Tokens of deactivated users are rejected.
	token, _, err = i.Issue(alice.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, db.Delete(alice).Error)
	_, em = Authenticate(ctx, db, i, token)
	require.NotNil(t, em)
	assert.Equal(t, generics.KindUnauthenticated, generics.KindOf(em))

	// Username mismatch, eg. after a rename.
	token, _, err = i.Issue(admin.ID, "someone")
	require.NoError(t, err)
	_, em = Authenticate(ctx, db, i, token)
	require.NotNil(t, em)
}
