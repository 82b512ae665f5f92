package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/gazebo-web/forum-server/bundles/accounts"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/cmd/forumctl/output"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cobra"
)

var adminPassword string

// errMsg converts a service error into a command error.
func errMsg(em *gz.ErrMsg) error {
	if len(em.Extra) == 0 {
		return errors.New(em.Msg)
	}
	return errors.New(em.Msg + ": " + strings.Join(em.Extra, ", "))
}

// createAdminCmd creates an admin account
var createAdminCmd = &cobra.Command{
	Use:   "create-admin USERNAME",
	Short: "Create an admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminPassword) < 6 {
			return errors.New("--password must have at least 6 characters")
		}
		return withTx(func(ctx context.Context, tx *gorm.DB) error {
			u, em := users.NewUser(ctx, tx, args[0], adminPassword, true)
			if em != nil {
				return errMsg(em)
			}
			output.Success("Admin %s created with id %d", *u.Username, u.ID)
			return nil
		})
	},
}

// deactivateCmd deactivates an account and its content
var deactivateCmd = &cobra.Command{
	Use:   "deactivate USERNAME",
	Short: "Deactivate an account and all its threads, comments and likes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTx(func(ctx context.Context, tx *gorm.DB) error {
			u, err := users.FindByUsername(tx, args[0], false)
			if err != nil {
				return err
			}
			if u == nil {
				return errors.New("no active user named " + args[0])
			}
			at, err := accounts.DefaultEngine().Deactivate(ctx, tx, u.ID)
			if err != nil {
				return err
			}
			output.Success("User %s deactivated", args[0])
			output.Muted("Deactivation marker: %s", at)
			return nil
		})
	},
}

// activateCmd reactivates an account and the content deactivated with it
var activateCmd = &cobra.Command{
	Use:   "activate USERNAME",
	Short: "Reactivate a deactivated account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTx(func(ctx context.Context, tx *gorm.DB) error {
			res, em := accounts.NewService().Activate(ctx, tx, args[0])
			if em != nil {
				if em.ErrCode == gz.ErrorResourceExists {
					output.Warning("User %s is already active", args[0])
				}
				return errMsg(em)
			}
			output.Success("%s", res.Message)
			return nil
		})
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password of the new admin")
	rootCmd.AddCommand(createAdminCmd, deactivateCmd, activateCmd)
}
