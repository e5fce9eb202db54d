package database

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/jifunze/core"
	appfs "github.com/trezcool/jifunze/fs"
)

// DB wraps the sqlx pool so transactions surface as core.DBTransactor.
type DB struct {
	*sqlx.DB
}

var _ core.DB = (*DB)(nil)

func (db *DB) Begin() (core.DBTransactor, error) {
	return db.DB.Beginx()
}

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	if conf.Database.Engine == "sqlite3" {
		db, err := sqlx.Open("sqlite3", filepath.Join(conf.WorkDir, dbName+".db"))
		if err != nil {
			return nil, err
		}
		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, errors.Wrap(err, "enabling foreign keys")
		}
		db.SetMaxOpenConns(1) // SQLite does not support multiple writers
		return db, nil
	}

	u := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		u = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	dsn := url.URL{
		Scheme:   conf.Database.Engine,
		User:     u,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(conf.Database.Engine, dsn.String())
}

func Open(conf *core.Config) (*DB, error) {
	db, err := open(conf.Database.Name, false, conf)
	if err != nil {
		return nil, err
	}
	if err = ping(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "pinging database")
}

// CreateIfNotExist creates the app database using the admin credentials.
// A no-op for sqlite where opening the file is enough.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Database.Engine == "sqlite3" {
		return nil
	}

	admin, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening admin connection")
	}
	defer admin.Close()
	if err = ping(admin); err != nil {
		return err
	}

	var exists bool
	err = admin.Get(&exists, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking database existence")
	}
	if exists {
		return nil
	}
	if _, err = admin.Exec(fmt.Sprintf("CREATE DATABASE %q", conf.Database.Name)); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

// Migrate applies all pending migrations from the embedded fs.
func Migrate(db *DB, conf *core.Config) error {
	if err := goose.SetDialect(gooseDialect(conf)); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	goose.SetBaseFS(appfs.FS)
	return errors.Wrap(goose.Up(db.DB.DB, "migrations"), "applying migrations")
}

// RunGoose runs an arbitrary goose command (admin CLI).
func RunGoose(db *DB, conf *core.Config, command string, args ...string) error {
	if err := goose.SetDialect(gooseDialect(conf)); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	goose.SetBaseFS(appfs.FS)
	return goose.Run(command, db.DB.DB, "migrations", args...)
}

func gooseDialect(conf *core.Config) string {
	if conf.Database.Engine == "sqlite3" {
		return "sqlite3"
	}
	return "postgres"
}
