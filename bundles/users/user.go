package users

import (
	"context"
	"time"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// User information
type User struct {
	gorm.Model

	// Username is unique among all accounts, including deactivated ones.
	Username *string `gorm:"not null;unique" json:"username"`

	// Password holds the bcrypt hash of the user password.
	Password *string `gorm:"not null" json:"-"`

	// IsAdmin users can manage other accounts.
	IsAdmin bool `gorm:"not null" json:"-"`

	// TokenExpiresAt is the expiration of the last token issued on login.
	TokenExpiresAt *time.Time `json:"-"`
}

// Users is an slice of User
type Users []User

// IsActive returns true if the user has not been deactivated.
func (u *User) IsActive() bool {
	return u.DeletedAt == nil
}

// AddedUser is returned after a successful registration.
type AddedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// UserResponse stores user information used in REST responses.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccountResponse is the admin view of an account. It includes the
// deactivation marker.
type AccountResponse struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `json:"deletedAt"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt"`
}

// AccountResponses is a slice of AccountResponse
type AccountResponses []AccountResponse

// RegisterInput is the input used to create a new user.
type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required,username"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

// UpdateUserInput encapsulates data that can be updated in an user
type UpdateUserInput struct {
	Username *string `json:"username,omitempty" form:"username" validate:"omitempty,username"`
	Password *string `json:"password,omitempty" form:"password" validate:"omitempty,min=6,max=72"`
}

// IsEmpty returns true is the struct is empty.
func (uu UpdateUserInput) IsEmpty() bool {
	return uu.Username == nil && uu.Password == nil
}

// ByID returns the active user with the given id. It returns nil if the user
// does not exist or is deactivated. Database errors are logged and also
// reported as nil.
func ByID(ctx context.Context, tx *gorm.DB, id uint) *User {
	var user User
	q := tx.Where("id = ?", id).First(&user)
	if q.RecordNotFound() {
		return nil
	}
	if q.Error != nil {
		gz.LoggerFromContext(ctx).Error("Error reading user id=", id, ": ", q.Error)
		return nil
	}
	return &user
}

// ByUsername queries a user by username. If deleted is true deactivated users
// are also considered. Same as ByID, failures are logged and reported as nil.
func ByUsername(ctx context.Context, tx *gorm.DB, username string, deleted bool) *User {
	user, err := FindByUsername(tx, username, deleted)
	if err != nil {
		gz.LoggerFromContext(ctx).Error("Error reading user username=", username, ": ", err)
		return nil
	}
	return user
}

// FindByUsername queries a user by username and returns database errors to
// the caller. A missing user is reported as nil with no error.
func FindByUsername(tx *gorm.DB, username string, deleted bool) (*User, error) {
	q := tx
	if deleted {
		// Allow to search in already deleted users
		q = q.Unscoped()
	}
	var user User
	if q = q.Where("username = ?", username).First(&user); q.Error != nil {
		if q.RecordNotFound() {
			return nil, nil
		}
		return nil, q.Error
	}
	return &user, nil
}

// CreateUserResponse creates a UserResponse from a User.
func CreateUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  *user.Username,
		CreatedAt: user.CreatedAt,
	}
}

// CreateAccountResponse creates an AccountResponse from a User.
func CreateAccountResponse(user *User) AccountResponse {
	return AccountResponse{
		ID:             user.ID,
		Username:       *user.Username,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
		DeletedAt:      user.DeletedAt,
		TokenExpiresAt: user.TokenExpiresAt,
	}
}
