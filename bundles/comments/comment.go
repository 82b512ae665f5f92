package comments

import (
	"context"
	"time"

	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Comment is a reply to a thread.
type Comment struct {
	gorm.Model

	UserID uint       `gorm:"not null;index" json:"user_id"`
	User   users.User `gorm:"association_autoupdate:false;association_autocreate:false" json:"-"`

	ThreadID uint `gorm:"not null;index" json:"thread_id"`

	Text *string `gorm:"type:text;not null" json:"text"`
}

// Comments is a slice of Comment
type Comments []Comment

// AddedComment is returned after creating a comment.
type AddedComment struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentResponse is a comment in a listing.
type CommentResponse struct {
	ID        uint           `json:"id"`
	ThreadID  uint           `json:"thread_id"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
	User      threads.Author `json:"user"`
}

// CommentResponses is a slice of CommentResponse
type CommentResponses []CommentResponse

// CreateCommentInput is the input used to comment a thread.
type CreateCommentInput struct {
	Text string `json:"text" form:"text" validate:"required,notblank"`
}

// ByID returns the active comment with the given id, or nil. Database errors
// are logged and reported as nil.
func ByID(ctx context.Context, tx *gorm.DB, id uint) *Comment {
	var c Comment
	q := tx.Where("id = ?", id).First(&c)
	if q.RecordNotFound() {
		return nil
	}
	if q.Error != nil {
		gz.LoggerFromContext(ctx).Error("Error reading comment id=", id, ": ", q.Error)
		return nil
	}
	return &c
}

// ByThread returns the active comments of a thread, oldest first. Database
// errors are logged and produce an empty slice.
func ByThread(ctx context.Context, tx *gorm.DB, threadID uint) Comments {
	var list Comments
	err := tx.Preload("User").
		Where("thread_id = ?", threadID).
		Order("created_at asc, id asc").
		Find(&list).Error
	if err != nil {
		gz.LoggerFromContext(ctx).Error("Error reading comments of thread id=", threadID, ": ", err)
		return Comments{}
	}
	return list
}

// CreateCommentResponses creates the listing view of the given comments.
func CreateCommentResponses(list Comments) CommentResponses {
	out := make(CommentResponses, 0, len(list))
	for _, c := range list {
		author := threads.Author{ID: c.UserID}
		if c.User.Username != nil {
			author.Username = *c.User.Username
		}
		out = append(out, CommentResponse{
			ID:        c.ID,
			ThreadID:  c.ThreadID,
			Text:      *c.Text,
			CreatedAt: c.CreatedAt,
			User:      author,
		})
	}
	return out
}
