package threads

import (
	"time"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/jinzhu/gorm"
)

// Repository soft deletes and restores the threads of a user.
type Repository struct{}

var _ generics.OwnedRepository = Repository{}

// Name returns the table handled by the repository.
func (Repository) Name() string {
	return "threads"
}

// DeactivateByOwner marks all active threads of the owner as deleted at the
// given time.
func (Repository) DeactivateByOwner(tx *gorm.DB, ownerID uint, at time.Time) (int64, error) {
	return generics.DeactivateWhere(tx, &Thread{}, "user_id", ownerID, at)
}

// ReactivateByOwner restores the threads of the owner deleted at the given time.
func (Repository) ReactivateByOwner(tx *gorm.DB, ownerID uint, at time.Time) (int64, error) {
	return generics.RestoreWhere(tx, &Thread{}, "user_id", ownerID, at)
}
