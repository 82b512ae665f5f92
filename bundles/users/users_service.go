package users

import (
	"context"
	"fmt"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// NewUser creates and saves a new user with the given credentials.
func NewUser(ctx context.Context, tx *gorm.DB, username, password string, admin bool) (*User, *gz.ErrMsg) {
	if ByUsername(ctx, tx, username, true) != nil {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, nil,
			[]string{"username already taken"})
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}
	user := User{
		Username: &username,
		Password: &hash,
		IsAdmin:  admin,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	gz.LoggerFromContext(ctx).Info("User created. Username=", username, " Admin=", admin)
	return &user, nil
}

// Register creates a new non admin user.
func Register(ctx context.Context, tx *gorm.DB, in *RegisterInput) (*generics.Result, *gz.ErrMsg) {
	user, em := NewUser(ctx, tx, in.Username, in.Password, false)
	if em != nil {
		return nil, em
	}
	added := AddedUser{ID: user.ID, Username: *user.Username}
	return generics.Created("user registered").With("addedUser", added), nil
}

// GetUser returns the user with the given id. Users can only read their own
// account.
func GetUser(ctx context.Context, tx *gorm.DB, acting permissions.Identity, id uint) (*generics.Result, *gz.ErrMsg) {
	user := ByID(ctx, tx, id)
	if user == nil {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorUserUnknown, nil, []string{"user not found"})
	}
	if !permissions.CanAccessOwned(acting.UserID, user.ID) {
		return nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}
	return generics.OK().With("user", CreateUserResponse(user)), nil
}

// UpdateUser updates the acting user.
// Fields that can be currently updated: username, password
func UpdateUser(ctx context.Context, tx *gorm.DB, acting permissions.Identity,
	uu *UpdateUserInput) (*generics.Result, *gz.ErrMsg) {

	if uu.IsEmpty() {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorMissingField, nil, []string{"username or password"})
	}

	user := ByID(ctx, tx, acting.UserID)
	if user == nil {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorUserUnknown, nil, []string{"user not found"})
	}
	previous := *user.Username

	upd := map[string]interface{}{}
	if uu.Username != nil && *uu.Username != previous {
		if ByUsername(ctx, tx, *uu.Username, true) != nil {
			return nil, gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, nil,
				[]string{"username already taken"})
		}
		upd["username"] = *uu.Username
	}
	if uu.Password != nil {
		hash, err := HashPassword(*uu.Password)
		if err != nil {
			return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
		}
		upd["password"] = hash
	}
	if len(upd) > 0 {
		if err := tx.Model(user).Updates(upd).Error; err != nil {
			return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
		}
	}

	gz.LoggerFromContext(ctx).Info("User updated. Username=", previous)
	return generics.Created(fmt.Sprintf("profile %s updated", previous)), nil
}

// UserList returns a paginated list of non admin accounts, newest first.
// Deactivated accounts are included. Database failures are logged and
// produce an empty page.
func UserList(ctx context.Context, p *gz.PaginationRequest,
	tx *gorm.DB) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg) {

	var us Users
	q := tx.Unscoped().Model(&User{}).
		Where("is_admin = ?", false).
		Order("created_at desc, id desc")

	pagination, err := generics.Paginate(q, &us, p)
	if err != nil {
		gz.LoggerFromContext(ctx).Error("Error listing users: ", err)
		return generics.OK().With("users", AccountResponses{}).WithPage(generics.EmptyPage(p)), nil, nil
	}

	responses := make(AccountResponses, 0, len(us))
	for i := range us {
		responses = append(responses, CreateAccountResponse(&us[i]))
	}
	return generics.OK().With("users", responses).WithPage(generics.NewPage(pagination)), pagination, nil
}

// PromoteAdmins sets the admin flag on the given usernames. Unknown usernames
// are logged and skipped.
func PromoteAdmins(ctx context.Context, tx *gorm.DB, usernames []string) error {
	for _, name := range usernames {
		q := tx.Model(&User{}).Where("username = ?", name).UpdateColumn("is_admin", true)
		if q.Error != nil {
			return q.Error
		}
		if q.RowsAffected == 0 {
			gz.LoggerFromContext(ctx).Warning("Admin user not found. Username=", name)
		}
	}
	return nil
}
