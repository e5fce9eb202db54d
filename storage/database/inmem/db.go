// Package inmemdb backs the repositories with plain in-memory tables. It
// exists for service and handler tests; raw SQL access is not supported.
package inmemdb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/grading"
	"github.com/trezcool/jifunze/core/profile"
	"github.com/trezcool/jifunze/core/progress"
	"github.com/trezcool/jifunze/core/reward"
	"github.com/trezcool/jifunze/core/user"
)

var errNoSQL = errors.New("inmemdb: raw SQL is not supported")

type (
	DB struct {
		mutex sync.RWMutex

		users        map[string]*user.User          // by id
		profiles     map[string]*profile.Profile    // by user id
		profBadges   map[string]map[string]bool     // profile id -> badge id set
		chapters     map[string]*content.Chapter    // by id
		quizzes      map[string]*content.Quiz       // by id
		questions    map[string]*content.Question   // by id
		badges       map[string]*content.Badge      // by id
		achievements map[string]*content.Achievement // by id

		completions map[string]progress.Completion       // by user id + chapter id
		answers     []grading.Answer                     // append-only
		badgeAwards map[string]reward.BadgeAward         // by user id + badge id
		achAwards   map[string]reward.AchievementAward   // by user id + achievement id
	}

	// tx is a no-op transactor: table writes apply immediately and commit and
	// rollback do nothing. Good enough for tests; atomicity is the SQL
	// backend's business.
	tx struct{ *DB }
)

var (
	_ core.DB           = (*DB)(nil)
	_ core.DBTransactor = tx{}
)

func NewDB() *DB {
	return &DB{
		users:        make(map[string]*user.User),
		profiles:     make(map[string]*profile.Profile),
		profBadges:   make(map[string]map[string]bool),
		chapters:     make(map[string]*content.Chapter),
		quizzes:      make(map[string]*content.Quiz),
		questions:    make(map[string]*content.Question),
		badges:       make(map[string]*content.Badge),
		achievements: make(map[string]*content.Achievement),
		completions:  make(map[string]progress.Completion),
		answers:      make([]grading.Answer, 0),
		badgeAwards:  make(map[string]reward.BadgeAward),
		achAwards:    make(map[string]reward.AchievementAward),
	}
}

func (db *DB) Begin() (core.DBTransactor, error) { return tx{db}, nil }

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errNoSQL
}
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errNoSQL
}
func (db *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return nil
}
func (db *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, errNoSQL
}

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }

func awardKey(userID, id string) string { return userID + "|" + id }
