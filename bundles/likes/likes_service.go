package likes

import (
	"context"
	"fmt"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Service is the likes service.
type Service struct{}

// Toggle likes or unlikes a thread on behalf of the acting user:
//
//	no record   -> like   -> active
//	deactivated -> like   -> active (same row)
//	active      -> unlike -> deactivated
//
// The result reports the new state and the count of active likes of the
// thread after the change.
func (s *Service) Toggle(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	threadID uint) (*generics.Result, *gz.ErrMsg) {

	t := threads.ByID(ctx, tx, threadID)
	if t == nil {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorNonExistentResource, nil, []string{"thread not found"})
	}

	l, err := find(tx, acting.UserID, t.ID)
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}

	var liked bool
	switch StateOf(l) {
	case NoRecord:
		l = &Like{UserID: acting.UserID, ThreadID: t.ID}
		err = tx.Create(l).Error
		liked = true
	case Deactivated:
		err = tx.Unscoped().Model(l).UpdateColumn("deleted_at", nil).Error
		liked = true
	case Active:
		err = tx.Delete(l).Error
	}
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	count, err := CountActive(tx, t.ID)
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}

	msg := "thread unliked"
	if liked {
		msg = "thread liked"
	}
	gz.LoggerFromContext(ctx).Debug(fmt.Sprintf("%s. Thread=[%s] user id=%d likes=%d", msg, *t.Slug, acting.UserID, count))
	return generics.Created(msg).With("liked", liked).With("likeCount", count), nil
}
