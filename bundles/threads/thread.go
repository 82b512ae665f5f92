package threads

import (
	"context"
	"time"

	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	uuid "github.com/satori/go.uuid"
)

// Thread is a discussion started by a user.
type Thread struct {
	gorm.Model

	// UserID is the owner of the thread. It never changes after creation.
	UserID uint       `gorm:"not null;index" json:"user_id"`
	User   users.User `gorm:"association_autoupdate:false;association_autocreate:false" json:"-"`

	// Slug is a random unique identifier used by public thread URLs.
	Slug *string `gorm:"not null;unique" json:"slug"`

	Title *string `gorm:"not null" json:"title"`
	Body  *string `gorm:"type:text;not null" json:"body"`
}

// Threads is a slice of Thread
type Threads []Thread

// NewSlug returns a new random thread slug.
func NewSlug() string {
	return uuid.NewV4().String()
}

// Author is the public view of a thread or comment owner.
type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// AddedThread is returned after creating a thread.
type AddedThread struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Slug  string `json:"slug"`
}

// ThreadResponse is the owner view of a thread.
type ThreadResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ThreadSummary is a thread in a listing, with its author and counts of
// active comments and likes.
type ThreadSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Slug         string    `json:"slug"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         Author    `json:"user"`
	CommentCount int64     `json:"comment_count"`
	LikeCount    int64     `json:"like_count"`
}

// ThreadSummaries is a slice of ThreadSummary
type ThreadSummaries []ThreadSummary

// DetailComment is an active comment shown in a thread detail.
type DetailComment struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	User      Author    `json:"user"`
}

// ThreadDetail is the public view of a thread.
type ThreadDetail struct {
	ThreadSummary
	Comments []DetailComment `json:"comments"`
}

// CreateThreadInput is the input used to create a thread.
type CreateThreadInput struct {
	Title string `json:"title" form:"title" validate:"required,notblank,max=255"`
	Body  string `json:"body" form:"body" validate:"required,notblank"`
}

// UpdateThreadInput is the input used to update a thread.
type UpdateThreadInput struct {
	Title string `json:"title" form:"title" validate:"required,notblank,max=255"`
	Body  string `json:"body" form:"body" validate:"required,notblank"`
}

// ByID returns the active thread with the given id, or nil. Database errors
// are logged and reported as nil.
func ByID(ctx context.Context, tx *gorm.DB, id uint) *Thread {
	var t Thread
	q := tx.Where("id = ?", id).First(&t)
	if q.RecordNotFound() {
		return nil
	}
	if q.Error != nil {
		gz.LoggerFromContext(ctx).Error("Error reading thread id=", id, ": ", q.Error)
		return nil
	}
	return &t
}

// BySlug returns the active thread with the given slug and its author, or nil.
// Database errors are logged and reported as nil.
func BySlug(ctx context.Context, tx *gorm.DB, slug string) *Thread {
	var t Thread
	q := tx.Preload("User").Where("slug = ?", slug).First(&t)
	if q.RecordNotFound() {
		return nil
	}
	if q.Error != nil {
		gz.LoggerFromContext(ctx).Error("Error reading thread slug=", slug, ": ", q.Error)
		return nil
	}
	return &t
}

// CreateThreadResponse creates the owner view of a thread.
func CreateThreadResponse(t *Thread) ThreadResponse {
	return ThreadResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Slug:      *t.Slug,
		Title:     *t.Title,
		Body:      *t.Body,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func authorOf(u *users.User) Author {
	a := Author{ID: u.ID}
	if u.Username != nil {
		a.Username = *u.Username
	}
	return a
}

func createSummary(t *Thread, c counts) ThreadSummary {
	return ThreadSummary{
		ID:           t.ID,
		Title:        *t.Title,
		Body:         *t.Body,
		Slug:         *t.Slug,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		User:         authorOf(&t.User),
		CommentCount: c.CommentCount,
		LikeCount:    c.LikeCount,
	}
}
