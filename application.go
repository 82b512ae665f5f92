// Package main Forum Server REST API
//
// This package provides the REST API of the forum server: accounts, threads,
// comments and likes.
//
// Schemes: https
// BasePath: /api/v1
// Version: 0.1.0
//
// swagger:meta
package main

// Import this file's dependencies
import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gazebo-web/forum-server/bundles/accounts"
	"github.com/gazebo-web/forum-server/bundles/auth"
	"github.com/gazebo-web/forum-server/bundles/comments"
	"github.com/gazebo-web/forum-server/bundles/likes"
	"github.com/gazebo-web/forum-server/bundles/threads"
	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/database"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/go-playground/form"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/validator.v9"
)

// Config holds the server configuration.
type Config struct {
	DB           database.Config
	JWTSecret    string
	TokenTTL     time.Duration
	HTTPPort     string
	Verbosity    int
	LogStd       bool
	SystemAdmins []string
}

/////////////////////////////////////////////////
/// Read the configuration
///
/// Environment variables:
///    FORUM_DB_DRIVER   : mysql, postgres or sqlite3. Default mysql
///    FORUM_DB_USERNAME : Database username
///    FORUM_DB_PASSWORD : Database password
///    FORUM_DB_ADDRESS  : Database address (host:port)
///    FORUM_DB_NAME     : Database name (such as "forum")
///    FORUM_DB_MAX_OPEN_CONNS : Max open connections
///    FORUM_JWT_SECRET  : base64 URL encoded HS256 key. Required
///    FORUM_TOKEN_TTL   : Token lifetime, eg. 24h
///    FORUM_HTTP_PORT   : Default 8000
///    FORUM_VERBOSITY   : gz verbosity level
///    FORUM_LOGGER_LOG_STDOUT : Echo logs to stdout
///    FORUM_SYSTEM_ADMIN : Comma separated usernames to promote to admin
func loadConfig() (*Config, error) {
	cfg := Config{
		DB:        database.Config{Driver: database.DriverMySQL},
		TokenTTL:  auth.DefaultTokenTTL,
		HTTPPort:  "8000",
		Verbosity: gz.VerbosityWarning,
	}

	var err error
	if cfg.JWTSecret, err = gz.ReadEnvVar("FORUM_JWT_SECRET"); err != nil {
		return nil, errors.New("missing FORUM_JWT_SECRET env variable")
	}

	if v, err := gz.ReadEnvVar("FORUM_DB_DRIVER"); err == nil {
		cfg.DB.Driver = v
	}
	cfg.DB.Username, _ = gz.ReadEnvVar("FORUM_DB_USERNAME")
	cfg.DB.Password, _ = gz.ReadEnvVar("FORUM_DB_PASSWORD")
	cfg.DB.Address, _ = gz.ReadEnvVar("FORUM_DB_ADDRESS")
	cfg.DB.Name, _ = gz.ReadEnvVar("FORUM_DB_NAME")
	if v, err := gz.ReadEnvVar("FORUM_DB_MAX_OPEN_CONNS"); err == nil {
		if cfg.DB.MaxOpenConns, err = strconv.Atoi(v); err != nil {
			return nil, errors.Wrap(err, "invalid FORUM_DB_MAX_OPEN_CONNS")
		}
	}

	if v, err := gz.ReadEnvVar("FORUM_TOKEN_TTL"); err == nil {
		if cfg.TokenTTL, err = time.ParseDuration(v); err != nil {
			return nil, errors.Wrap(err, "invalid FORUM_TOKEN_TTL")
		}
	}
	if v, err := gz.ReadEnvVar("FORUM_HTTP_PORT"); err == nil {
		cfg.HTTPPort = v
	}
	if v, err := gz.ReadEnvVar("FORUM_VERBOSITY"); err == nil {
		cfg.Verbosity, _ = strconv.Atoi(v)
	}
	if v, err := gz.ReadEnvVar("FORUM_LOGGER_LOG_STDOUT"); err == nil {
		cfg.LogStd, _ = strconv.ParseBool(v)
	}
	if v, err := gz.ReadEnvVar("FORUM_SYSTEM_ADMIN"); err == nil {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.SystemAdmins = append(cfg.SystemAdmins, name)
			}
		}
	}
	return &cfg, nil
}

// application holds the dependencies shared by all handlers.
type application struct {
	cfg         Config
	db          *gorm.DB
	logger      gz.Logger
	validate    *validator.Validate
	formDecoder *form.Decoder
	permissions *permissions.Permissions
	issuer      *auth.Issuer

	threads  *threads.Service
	comments *comments.Service
	likes    *likes.Service
	accounts *accounts.Service
}

// newApplication wires the services around an open and migrated database.
func newApplication(cfg Config, db *gorm.DB, perms *permissions.Permissions, logger gz.Logger) (*application, error) {
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &application{
		cfg:         cfg,
		db:          db,
		logger:      logger,
		validate:    initValidator(),
		formDecoder: form.NewDecoder(),
		permissions: perms,
		issuer:      issuer,
		threads:     &threads.Service{},
		comments:    &comments.Service{},
		likes:       &likes.Service{},
		accounts:    accounts.NewService(),
	}, nil
}

// promoteSystemAdmins gives the admin flag to the configured usernames.
func (app *application) promoteSystemAdmins(ctx context.Context) error {
	if len(app.cfg.SystemAdmins) == 0 {
		app.logger.Info("No FORUM_SYSTEM_ADMIN environment variable set. " +
			"No user will be promoted to admin")
		return nil
	}
	return users.PromoteAdmins(ctx, app.db, app.cfg.SystemAdmins)
}

func initValidator() *validator.Validate {
	validate := validator.New()
	InstallCustomValidators(validate)
	return validate
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := gz.NewLogger("init", cfg.LogStd, cfg.Verbosity)
	logCtx := gz.NewContextWithLogger(context.Background(), logger)

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	logger.Info("[application.go] Started using database: ", cfg.DB.Name)

	if err := database.Migrate(logCtx, db); err != nil {
		log.Fatal(err)
	}

	perms, err := permissions.New(db)
	if err != nil {
		log.Fatal("Error initializing permissions: ", err)
	}

	app, err := newApplication(*cfg, db, perms, logger)
	if err != nil {
		log.Fatal(err)
	}
	if err := app.promoteSystemAdmins(logCtx); err != nil {
		log.Fatal("Error promoting system admins: ", err)
	}

	addr := ":" + cfg.HTTPPort
	logger.Info("Forum server listening on ", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
