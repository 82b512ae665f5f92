package auth

import (
	"context"

	"github.com/gazebo-web/forum-server/permissions"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated identity.
func WithIdentity(ctx context.Context, id permissions.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored in ctx, if any.
func IdentityFrom(ctx context.Context) (permissions.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(permissions.Identity)
	return id, ok
}
