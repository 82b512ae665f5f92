package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/gazebo-web/forum-server/database"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbDriver string
	dbDSN    string
	verbose  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "forumctl",
	Short: "Operator tool for the forum server",
	Long: `forumctl manages the forum database without going through the REST API.

The database is selected with --driver and --dsn. When --dsn is empty the
connection is built from the FORUM_DB_* environment variables used by the
server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Database driver: mysql, postgres or sqlite3 (default $FORUM_DB_DRIVER or mysql)")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "dsn", "", "Database connection string")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// dbConfig merges the flags with the server environment variables.
func dbConfig() database.Config {
	cfg := database.Config{Driver: dbDriver, DSN: dbDSN}
	if cfg.Driver == "" {
		cfg.Driver, _ = gz.ReadEnvVar("FORUM_DB_DRIVER")
	}
	cfg.Username, _ = gz.ReadEnvVar("FORUM_DB_USERNAME")
	cfg.Password, _ = gz.ReadEnvVar("FORUM_DB_PASSWORD")
	cfg.Address, _ = gz.ReadEnvVar("FORUM_DB_ADDRESS")
	cfg.Name, _ = gz.ReadEnvVar("FORUM_DB_NAME")
	return cfg
}

func newContext() context.Context {
	verbosity := gz.VerbosityWarning
	if verbose {
		verbosity = gz.VerbosityDebug
	}
	return gz.NewContextWithLogger(context.Background(), gz.NewLoggerNoRollbar("forumctl", verbosity))
}

// withTx opens the database and runs fn in a transaction, committing only if
// fn succeeds.
func withTx(fn func(ctx context.Context, tx *gorm.DB) error) error {
	db, err := database.Open(dbConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(newContext(), tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
