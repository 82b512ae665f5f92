package generics

import (
	"time"

	"github.com/jinzhu/gorm"
)

// OwnedRepository is implemented by every record kind that follows the soft
// delete lifecycle of the user account that owns it.
//
// DeactivateByOwner marks all active records of the owner as deleted at the
// given time. ReactivateByOwner clears the marker only on records whose marker
// equals the given time, that is, records deactivated by the same event.
// Both operate below the default soft delete filter and report the number of
// affected rows.
type OwnedRepository interface {
	Name() string
	DeactivateByOwner(tx *gorm.DB, ownerID uint, at time.Time) (int64, error)
	ReactivateByOwner(tx *gorm.DB, ownerID uint, at time.Time) (int64, error)
}

// DeactivateWhere sets deleted_at to at on every active row of model whose
// column equals ownerID. Updated timestamps are left untouched.
func DeactivateWhere(tx *gorm.DB, model interface{}, column string, ownerID uint, at time.Time) (int64, error) {
	q := tx.Model(model).Where(column+" = ?", ownerID).UpdateColumn("deleted_at", at)
	return q.RowsAffected, q.Error
}

// RestoreWhere clears deleted_at on every row of model whose column equals
// ownerID and whose deleted_at equals at.
func RestoreWhere(tx *gorm.DB, model interface{}, column string, ownerID uint, at time.Time) (int64, error) {
	q := tx.Unscoped().Model(model).
		Where(column+" = ? AND deleted_at = ?", ownerID, at).
		UpdateColumn("deleted_at", nil)
	return q.RowsAffected, q.Error
}
