package accounts

import (
	"context"
	"fmt"

	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Service manages user accounts on behalf of admins.
type Service struct {
	Engine *Engine
}

// NewService creates a Service backed by the default cascade engine.
func NewService() *Service {
	return &Service{Engine: DefaultEngine()}
}

// Remove deactivates a non admin account and all of its content.
func (s *Service) Remove(ctx context.Context, tx *gorm.DB, id uint) (*generics.Result, *gz.ErrMsg) {
	user := users.ByID(ctx, tx, id)
	if user == nil || user.IsAdmin {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorUserUnknown, nil, []string{"user not found"})
	}

	at, err := s.Engine.Deactivate(ctx, tx, user.ID)
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}

	gz.LoggerFromContext(ctx).Info(fmt.Sprintf("User [%s] has been deactivated at %s.", *user.Username, at))
	return generics.Created(fmt.Sprintf("user %s deactivated", *user.Username)), nil
}

// Activate reactivates a deactivated account and the content deactivated
// with it. Activating an active account is an error and changes nothing.
func (s *Service) Activate(ctx context.Context, tx *gorm.DB, username string) (*generics.Result, *gz.ErrMsg) {
	user, err := users.FindByUsername(tx, username, true)
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, err)
	}
	if user == nil || user.IsAdmin {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorUserUnknown, nil, []string{"user not found"})
	}
	if user.IsActive() {
		return nil, gz.NewErrorMessageWithArgs(gz.ErrorResourceExists, nil, []string{"user is still active"})
	}

	if err := s.Engine.Reactivate(ctx, tx, user); err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	gz.LoggerFromContext(ctx).Info(fmt.Sprintf("User [%s] has been reactivated.", username))
	return generics.Created(fmt.Sprintf("user %s activated", username)), nil
}
