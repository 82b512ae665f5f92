package threads

import (
	"context"
	"fmt"
	"time"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Service is the threads service.
type Service struct{}

func threadNotFound() *gz.ErrMsg {
	return gz.NewErrorMessageWithArgs(gz.ErrorNonExistentResource, nil, []string{"thread not found"})
}

// ownedThread returns the thread with the given id if the acting user owns it.
func ownedThread(ctx context.Context, tx *gorm.DB, acting permissions.Identity, id uint) (*Thread, *gz.ErrMsg) {
	t := ByID(ctx, tx, id)
	if t == nil {
		return nil, threadNotFound()
	}
	if !permissions.CanAccessOwned(acting.UserID, t.UserID) {
		return nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}
	return t, nil
}

// Create creates a new thread owned by the acting user. The slug is random,
// so threads may share titles.
func (s *Service) Create(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	in *CreateThreadInput) (*generics.Result, *gz.ErrMsg) {

	slug := NewSlug()
	t := Thread{
		UserID: acting.UserID,
		Slug:   &slug,
		Title:  &in.Title,
		Body:   &in.Body,
	}
	if err := tx.Create(&t).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	gz.LoggerFromContext(ctx).Info(fmt.Sprintf("Thread [%s] created by user id=%d", slug, acting.UserID))
	added := AddedThread{ID: t.ID, Title: in.Title, Body: in.Body, Slug: slug}
	return generics.Created("thread created").With("addedThread", added), nil
}

// Get returns a thread to its owner.
func (s *Service) Get(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	id uint) (*generics.Result, *gz.ErrMsg) {

	t, em := ownedThread(ctx, tx, acting, id)
	if em != nil {
		return nil, em
	}
	return generics.OK().With("thread", CreateThreadResponse(t)), nil
}

// Update updates the title and body of a thread owned by the acting user.
func (s *Service) Update(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	id uint, in *UpdateThreadInput) (*generics.Result, *gz.ErrMsg) {

	t, em := ownedThread(ctx, tx, acting, id)
	if em != nil {
		return nil, em
	}
	previous := *t.Title
	if err := tx.Model(t).Updates(map[string]interface{}{"title": in.Title, "body": in.Body}).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	gz.LoggerFromContext(ctx).Info(fmt.Sprintf("Thread [%s] updated", *t.Slug))
	return generics.Created(fmt.Sprintf("thread %s updated", previous)), nil
}

// Delete soft deletes a thread owned by the acting user.
func (s *Service) Delete(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	id uint) (*generics.Result, *gz.ErrMsg) {

	t, em := ownedThread(ctx, tx, acting, id)
	if em != nil {
		return nil, em
	}
	if err := tx.Delete(t).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	gz.LoggerFromContext(ctx).Info(fmt.Sprintf("Thread [%s] has been removed.", *t.Slug))
	return generics.Created(fmt.Sprintf("thread %s deleted", *t.Title)), nil
}

// List returns a page of active threads, newest first.
func (s *Service) List(ctx context.Context, tx *gorm.DB,
	p *gz.PaginationRequest) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	q := tx.Model(&Thread{}).Order("created_at desc, id desc")
	return s.listPage(ctx, tx, q, p)
}

// ListByUsername returns a page of the active threads of a user.
func (s *Service) ListByUsername(ctx context.Context, tx *gorm.DB, username string,
	p *gz.PaginationRequest) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	owner := users.ByUsername(ctx, tx, username, false)
	if owner == nil {
		return nil, nil, gz.NewErrorMessageWithArgs(gz.ErrorUserUnknown, nil, []string{"user not found"})
	}
	q := tx.Model(&Thread{}).Where("user_id = ?", owner.ID).Order("created_at desc, id desc")
	return s.listPage(ctx, tx, q, p)
}

// ListLikedBy returns a page of the active threads a user currently likes.
func (s *Service) ListLikedBy(ctx context.Context, tx *gorm.DB, username string,
	p *gz.PaginationRequest) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	liker := users.ByUsername(ctx, tx, username, false)
	if liker == nil {
		return nil, nil, gz.NewErrorMessageWithArgs(gz.ErrorUserUnknown, nil, []string{"user not found"})
	}
	q := tx.Model(&Thread{}).
		Select("threads.*").
		Joins("JOIN likes ON likes.thread_id = threads.id AND likes.deleted_at IS NULL AND likes.user_id = ?", liker.ID).
		Order("threads.created_at desc, threads.id desc")
	return s.listPage(ctx, tx, q, p)
}

// listPage paginates q and builds the summaries. Database failures are logged
// and produce an empty page.
func (s *Service) listPage(ctx context.Context, tx *gorm.DB, q *gorm.DB,
	p *gz.PaginationRequest) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	var list Threads
	pagination, err := generics.Paginate(q.Preload("User"), &list, p)
	if err != nil {
		gz.LoggerFromContext(ctx).Error("Error listing threads: ", err)
		return generics.OK().With("threads", ThreadSummaries{}).WithPage(generics.EmptyPage(p)), nil, nil
	}

	ids := make([]uint, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}
	cs, err := countsFor(tx, ids)
	if err != nil {
		gz.LoggerFromContext(ctx).Error("Error counting thread comments and likes: ", err)
		cs = map[uint]counts{}
	}

	summaries := make(ThreadSummaries, 0, len(list))
	for i := range list {
		summaries = append(summaries, createSummary(&list[i], cs[list[i].ID]))
	}
	return generics.OK().With("threads", summaries).WithPage(generics.NewPage(pagination)), pagination, nil
}

// Detail returns the public view of a thread, with its active comments.
func (s *Service) Detail(ctx context.Context, tx *gorm.DB, slug string) (*generics.Result, *gz.ErrMsg) {
	t := BySlug(ctx, tx, slug)
	if t == nil {
		return nil, threadNotFound()
	}

	cs, err := countsFor(tx, []uint{t.ID})
	if err != nil {
		gz.LoggerFromContext(ctx).Error("Error counting thread comments and likes: ", err)
		cs = map[uint]counts{}
	}

	detail := ThreadDetail{
		ThreadSummary: createSummary(t, cs[t.ID]),
		Comments:      detailComments(ctx, tx, t.ID),
	}
	return generics.OK().With("thread", detail), nil
}

type commentRow struct {
	ID        uint
	Text      string
	CreatedAt time.Time
	UserID    uint
	Username  string
}

// detailComments returns the active comments of a thread whose authors are
// active, oldest first. Database failures are logged and produce an empty
// slice.
func detailComments(ctx context.Context, tx *gorm.DB, threadID uint) []DetailComment {
	var rows []commentRow
	err := tx.Table("comments").
		Select("comments.id, comments.text, comments.created_at, users.id AS user_id, users.username").
		Joins("JOIN users ON users.id = comments.user_id AND users.deleted_at IS NULL").
		Where("comments.thread_id = ? AND comments.deleted_at IS NULL", threadID).
		Order("comments.created_at asc, comments.id asc").
		Scan(&rows).Error
	out := make([]DetailComment, 0, len(rows))
	if err != nil {
		gz.LoggerFromContext(ctx).Error("Error reading comments of thread id=", threadID, ": ", err)
		return out
	}
	for _, r := range rows {
		out = append(out, DetailComment{
			ID:        r.ID,
			Text:      r.Text,
			CreatedAt: r.CreatedAt,
			User:      Author{ID: r.UserID, Username: r.Username},
		})
	}
	return out
}
