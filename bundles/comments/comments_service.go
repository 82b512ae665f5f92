package comments

import (
	"context"
	"fmt"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Service is the comments service.
type Service struct{}

func notFound(what string) *gz.ErrMsg {
	return gz.NewErrorMessageWithArgs(gz.ErrorNonExistentResource, nil, []string{what + " not found"})
}

// Create adds a comment of the acting user to an active thread.
func (s *Service) Create(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	threadID uint, in *CreateCommentInput) (*generics.Result, *gz.ErrMsg) {

	t := threads.ByID(ctx, tx, threadID)
	if t == nil {
		return nil, notFound("thread")
	}

	c := Comment{
		UserID:   acting.UserID,
		ThreadID: t.ID,
		Text:     &in.Text,
	}
	if err := tx.Create(&c).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	gz.LoggerFromContext(ctx).Info(fmt.Sprintf("Comment id=%d added to thread [%s]", c.ID, *t.Slug))
	added := AddedComment{ID: c.ID, Text: in.Text, CreatedAt: c.CreatedAt}
	return generics.Created("comment added").With("addedComment", added), nil
}

// Delete soft deletes a comment. The acting user must own the comment and the
// comment must belong to the given thread.
func (s *Service) Delete(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	threadID, commentID uint) (*generics.Result, *gz.ErrMsg) {

	t := threads.ByID(ctx, tx, threadID)
	if t == nil {
		return nil, notFound("thread")
	}
	c := ByID(ctx, tx, commentID)
	if c == nil {
		return nil, notFound("comment")
	}
	if !permissions.CanAccessOwned(acting.UserID, c.UserID) || c.ThreadID != t.ID {
		return nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	if err := tx.Delete(c).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	gz.LoggerFromContext(ctx).Info(fmt.Sprintf("Comment id=%d has been removed.", c.ID))

	list := CreateCommentResponses(ByThread(ctx, tx, t.ID))
	return generics.Created("comment deleted").With("comments", list), nil
}

// List returns the active comments of an active thread.
func (s *Service) List(ctx context.Context, tx *gorm.DB, threadID uint) (*generics.Result, *gz.ErrMsg) {
	t := threads.ByID(ctx, tx, threadID)
	if t == nil {
		return nil, notFound("thread")
	}
	list := CreateCommentResponses(ByThread(ctx, tx, t.ID))
	return generics.OK().With("comments", list), nil
}
