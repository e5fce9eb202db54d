// Package pgrepos implements the engine repositories with sqlx.
// Queries stick to $N placeholders used once each, in order, so the same
// statements bind correctly on both the postgres and sqlite engines.
package pgrepos

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
)

func nowUTC() time.Time { return time.Now().UTC() }

type base struct {
	exec core.DBExecutor
}

// getExec returns the caller's transaction when one is supplied,
// the shared pool otherwise.
func (repo base) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

// trapNoRowsErr maps the driver "no rows" error to the domain not-found error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}
