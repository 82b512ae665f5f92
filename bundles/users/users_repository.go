package users

import (
	"time"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/jinzhu/gorm"
)

// Repository soft deletes and restores user rows. The owner of a user row is
// the user itself.
type Repository struct{}

var _ generics.OwnedRepository = Repository{}

// Name returns the table handled by the repository.
func (Repository) Name() string {
	return "users"
}

// DeactivateByOwner marks the user as deactivated at the given time.
func (Repository) DeactivateByOwner(tx *gorm.DB, ownerID uint, at time.Time) (int64, error) {
	return generics.DeactivateWhere(tx, &User{}, "id", ownerID, at)
}

// ReactivateByOwner clears the deactivation marker if it equals at.
func (Repository) ReactivateByOwner(tx *gorm.DB, ownerID uint, at time.Time) (int64, error) {
	return generics.RestoreWhere(tx, &User{}, "id", ownerID, at)
}
