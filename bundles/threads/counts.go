package threads

import (
	"github.com/jinzhu/gorm"
)

// counts holds the number of active comments and likes of a thread.
type counts struct {
	ThreadID     uint
	CommentCount int64
	LikeCount    int64
}

// countsFor computes distinct counts of active comments and likes for each of
// the given threads. Threads with no comments or likes are present with zero
// counts.
func countsFor(tx *gorm.DB, ids []uint) (map[uint]counts, error) {
	result := make(map[uint]counts, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []counts
	err := tx.Table("threads").
		Select("threads.id AS thread_id, " +
			"COUNT(DISTINCT comments.id) AS comment_count, " +
			"COUNT(DISTINCT likes.id) AS like_count").
		Joins("LEFT JOIN comments ON comments.thread_id = threads.id AND comments.deleted_at IS NULL").
		Joins("LEFT JOIN likes ON likes.thread_id = threads.id AND likes.deleted_at IS NULL").
		Where("threads.id IN (?)", ids).
		Group("threads.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		result[c.ThreadID] = c
	}
	return result, nil
}
