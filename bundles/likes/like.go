package likes

import (
	"github.com/jinzhu/gorm"
)

// Like represents a like of a thread. A user has at most one Like row per
// thread: liking again after an unlike clears the deletion marker of the same
// row instead of inserting a new one.
type Like struct {
	gorm.Model

	// The ID of the user that made the like
	UserID uint `gorm:"not null;index:idx_user_thread_like"`

	// The ID of the thread that was liked
	ThreadID uint `gorm:"not null;index:idx_user_thread_like"`
}

// State is the state of a (user, thread) like.
type State int

const (
	// NoRecord means the user never liked the thread.
	NoRecord State = iota
	// Active means the user currently likes the thread.
	Active
	// Deactivated means the user liked the thread and then unliked it, or the
	// like was deactivated along with the user account.
	Deactivated
)

// StateOf returns the state represented by the given like row, which may be
// nil.
func StateOf(l *Like) State {
	switch {
	case l == nil:
		return NoRecord
	case l.DeletedAt == nil:
		return Active
	}
	return Deactivated
}

// find returns the like row of the user on the thread, including deactivated
// rows. A missing row is reported as nil with no error.
func find(tx *gorm.DB, userID, threadID uint) (*Like, error) {
	var l Like
	q := tx.Unscoped().Where("user_id = ? AND thread_id = ?", userID, threadID).First(&l)
	if q.RecordNotFound() {
		return nil, nil
	}
	if q.Error != nil {
		return nil, q.Error
	}
	return &l, nil
}

// CountActive returns the number of active likes of a thread.
func CountActive(tx *gorm.DB, threadID uint) (int64, error) {
	var n int64
	err := tx.Model(&Like{}).Where("thread_id = ?", threadID).Count(&n).Error
	return n, err
}
