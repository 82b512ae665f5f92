// Package database opens the forum database and manages its tables.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gazebo-web/forum-server/bundles/comments"
	"github.com/gazebo-web/forum-server/bundles/likes"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/gz-go/v7"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config describes how to reach the database.
type Config struct {
	Driver   string
	Username string
	Password string
	Address  string
	Name     string
	// DSN overrides the connection string built from the fields above.
	DSN string
	// MaxOpenConns is applied when greater than zero.
	MaxOpenConns int
}

// dsn builds the connection string for the configured driver.
func (c Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", c.Username, c.Password, c.Address, c.Name)
	case DriverSQLite:
		return c.Name
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.Username, c.Password, c.Address, c.Name)
}

// Open connects to the database described by cfg.
// PostgreSQL connections go through the pgx driver and are handed to gorm's
// postgres dialect.
func Open(cfg Config) (*gorm.DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverMySQL
	}

	var db *gorm.DB
	var err error
	switch cfg.Driver {
	case DriverMySQL, DriverSQLite:
		db, err = gorm.Open(cfg.Driver, cfg.dsn())
	case DriverPostgres:
		var sqlDB *sql.DB
		if sqlDB, err = sql.Open("pgx", cfg.dsn()); err == nil {
			db, err = gorm.Open(DriverPostgres, sqlDB)
		}
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", cfg.Driver)
	}

	if cfg.Driver == DriverSQLite {
		// A single connection keeps in-memory databases alive and avoids
		// locking errors.
		db.DB().SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.DB().SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

// Migrate auto migrates the forum tables and adds the owner foreign keys.
//
// WARNING: AutoMigrate will ONLY create tables, missing columns and missing
// indexes, and WON'T change existing column's type or delete unused columns.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&threads.Thread{},
		&comments.Comment{},
		&likes.Like{},
	).Error; err != nil {
		return errors.Wrap(err, "migrating tables")
	}
	if db.Dialect().GetName() == DriverMySQL {
		if err := WidenDeletedAt(db); err != nil {
			return err
		}
	}
	AddForeignKeys(ctx, db)
	return nil
}

// WidenDeletedAt keeps microseconds in the deleted_at columns. gorm creates
// them as whole second DATETIME on MySQL, and deactivation markers are
// matched by equality.
func WidenDeletedAt(db *gorm.DB) error {
	for _, model := range []interface{}{&users.User{}, &threads.Thread{}, &comments.Comment{}, &likes.Like{}} {
		table := db.NewScope(model).TableName()
		q := fmt.Sprintf("ALTER TABLE %s MODIFY deleted_at DATETIME(6) NULL", table)
		if err := db.Exec(q).Error; err != nil {
			return errors.Wrapf(err, "widening %s.deleted_at", table)
		}
	}
	return nil
}

// AddForeignKeys adds the owner references gorm cannot create from the
// models. SQLite cannot add constraints to existing tables, so it is skipped.
// Failures are logged, since the keys may already exist.
func AddForeignKeys(ctx context.Context, db *gorm.DB) {
	if db.Dialect().GetName() == DriverSQLite {
		return
	}
	keys := []struct {
		model interface{}
		field string
		dest  string
	}{
		{&threads.Thread{}, "user_id", "users(id)"},
		{&comments.Comment{}, "user_id", "users(id)"},
		{&comments.Comment{}, "thread_id", "threads(id)"},
		{&likes.Like{}, "user_id", "users(id)"},
		{&likes.Like{}, "thread_id", "threads(id)"},
	}
	for _, k := range keys {
		if err := db.Model(k.model).AddForeignKey(k.field, k.dest, "RESTRICT", "RESTRICT").Error; err != nil {
			gz.LoggerFromContext(ctx).Debug("Foreign key ", k.field, " -> ", k.dest, " not added: ", err)
		}
	}
}

// DropTables drops all forum tables. Used by tests and the admin tool.
func DropTables(ctx context.Context, db *gorm.DB) error {
	// IMPORTANT NOTE: DROP TABLE order is important, due to FKs
	err := db.DropTableIfExists(
		&likes.Like{},
		&comments.Comment{},
		&threads.Thread{},
		&users.User{},
	).Error
	if err != nil {
		return errors.Wrap(err, "dropping tables")
	}
	gz.LoggerFromContext(ctx).Info("Forum tables dropped")
	return nil
}
