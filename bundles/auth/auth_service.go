package auth

import (
	"context"
	"time"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// LoginInput holds the login credentials.
type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      users.UserResponse `json:"user"`
}

func badCredentials() *gz.ErrMsg {
	return gz.NewErrorMessageWithArgs(gz.ErrorAuthNoUser, nil, []string{"wrong username or password"})
}

// Login checks the credentials of an active user and issues a token. The
// token expiration is saved in the user row.
func Login(ctx context.Context, tx *gorm.DB, issuer *Issuer, in *LoginInput) (*generics.Result, *Session, *gz.ErrMsg) {
	user := users.ByUsername(ctx, tx, in.Username, false)
	if user == nil || !user.CheckPassword(in.Password) {
		return nil, nil, badCredentials()
	}

	token, exp, err := issuer.Issue(user.ID, *user.Username)
	if err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}
	if err := tx.Model(user).UpdateColumn("token_expires_at", exp).Error; err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	gz.LoggerFromContext(ctx).Info("User logged in. Username=", *user.Username)
	s := &Session{Token: token, ExpiresAt: exp, User: users.CreateUserResponse(user)}
	res := generics.Created("logged in").
		With("token", s.Token).
		With("expiresAt", s.ExpiresAt).
		With("user", s.User)
	return res, s, nil
}

// Authenticate verifies a token and resolves the identity of its active
// user. The admin flag is read here once and carried by the identity for the
// rest of the request.
func Authenticate(ctx context.Context, db *gorm.DB, issuer *Issuer, token string) (permissions.Identity, *gz.ErrMsg) {
	if token == "" {
		return permissions.Identity{}, gz.NewErrorMessageWithArgs(gz.ErrorAuthJWTInvalid, nil, []string{"missing token"})
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		return permissions.Identity{}, gz.NewErrorMessageWithBase(gz.ErrorAuthJWTInvalid, err)
	}
	user := users.ByID(ctx, db, claims.UserID)
	if user == nil || *user.Username != claims.Username {
		return permissions.Identity{}, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	return permissions.Identity{UserID: user.ID, Username: *user.Username, Admin: user.IsAdmin}, nil
}

// Me returns the identity of the request.
func Me(id permissions.Identity) *generics.Result {
	return generics.OK().With("user", map[string]interface{}{
		"id":       id.UserID,
		"username": id.Username,
		"isAdmin":  id.Admin,
	})
}
