package accounts

import (
	"context"
	"time"

	"github.com/gazebo-web/forum-server/bundles/comments"
	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/likes"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

// Engine propagates the deactivation and reactivation of an account to every
// record kind owned by it.
//
// All records touched by one deactivation share the same marker value. Only
// rows carrying that exact value are restored on reactivation, so content
// deleted earlier by its owner stays deleted.
type Engine struct {
	repos []generics.OwnedRepository
	now   func() time.Time
}

// NewEngine creates an Engine that cascades over the given repositories in
// order. The users repository should come first.
func NewEngine(repos ...generics.OwnedRepository) *Engine {
	return &Engine{repos: repos, now: time.Now}
}

// DefaultEngine returns the Engine over users, threads, comments and likes.
func DefaultEngine() *Engine {
	return NewEngine(users.Repository{}, threads.Repository{}, comments.Repository{}, likes.Repository{})
}

// markerTime returns the marker for a new deactivation event. It is truncated
// to microseconds, the precision the deleted_at columns keep once migrated
// (see database.WidenDeletedAt for MySQL), so equality against the stored
// value holds.
func (e *Engine) markerTime() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

// Deactivate soft deletes the user and all its active records. Any error
// aborts the cascade and is returned; the caller must roll back the
// transaction.
func (e *Engine) Deactivate(ctx context.Context, tx *gorm.DB, userID uint) (time.Time, error) {
	at := e.markerTime()
	for _, r := range e.repos {
		n, err := r.DeactivateByOwner(tx, userID, at)
		if err != nil {
			return at, errors.Wrapf(err, "deactivating %s of user id=%d", r.Name(), userID)
		}
		gz.LoggerFromContext(ctx).Debug("Deactivated ", n, " ", r.Name(), " of user id=", userID)
	}
	return at, nil
}

// Reactivate restores the deactivated user and every record deactivated
// together with it. The user must be deactivated.
func (e *Engine) Reactivate(ctx context.Context, tx *gorm.DB, user *users.User) error {
	if user.DeletedAt == nil {
		return errors.Errorf("user id=%d is not deactivated", user.ID)
	}
	at := *user.DeletedAt
	for _, r := range e.repos {
		n, err := r.ReactivateByOwner(tx, user.ID, at)
		if err != nil {
			return errors.Wrapf(err, "reactivating %s of user id=%d", r.Name(), user.ID)
		}
		gz.LoggerFromContext(ctx).Debug("Reactivated ", n, " ", r.Name(), " of user id=", user.ID)
	}
	return nil
}
