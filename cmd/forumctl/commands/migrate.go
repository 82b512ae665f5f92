package commands

import (
	"context"

	"github.com/gazebo-web/forum-server/cmd/forumctl/output"
	"github.com/gazebo-web/forum-server/database"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cobra"
)

var dropFirst bool

// migrateCmd creates or updates the forum tables
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the forum tables",
	Long: `Create or update the users, threads, comments and likes tables.

Examples:
  forumctl migrate --driver sqlite3 --dsn forum.db
  forumctl migrate --drop              # Drop all forum tables first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTx(func(ctx context.Context, tx *gorm.DB) error {
			if dropFirst {
				if err := database.DropTables(ctx, tx); err != nil {
					return err
				}
				output.Warning("Dropped all forum tables")
			}
			if err := database.Migrate(ctx, tx); err != nil {
				return err
			}
			output.Success("Forum tables are up to date")
			return nil
		})
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&dropFirst, "drop", false, "Drop all forum tables before migrating")
	rootCmd.AddCommand(migrateCmd)
}
