// Package repository implements the quiz and submission repositories on
// Oracle through sqlx.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"quiz-board/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/sijms/go-ora/v2/network"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)

// Oracle error codes the repositories react to.
const (
	oraUniqueViolation = 1     // ORA-00001
	oraResourceBusy    = 54    // ORA-00054
	oraDeadlock        = 60    // ORA-00060
	oraConnectionLost  = 3113  // ORA-03113
	oraNotConnected    = 3114  // ORA-03114
	oraSerializeAccess = 8177  // ORA-08177
	oraTNSTimeout      = 12170 // ORA-12170
	oraTNSNoListener   = 12541 // ORA-12541
)

func oracleCode(err error) int {
	var oraErr *network.OracleError
	if errors.As(err, &oraErr) {
		return oraErr.ErrCode
	}
	// drivers that only surface the message text
	msg := err.Error()
	if i := strings.Index(msg, "ORA-"); i >= 0 && len(msg) >= i+9 {
		if code, convErr := strconv.Atoi(msg[i+4 : i+9]); convErr == nil {
			return code
		}
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && oracleCode(err) == oraUniqueViolation
}

func storeError(op string, err error) error {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de
	}
	transient := errors.Is(err, sql.ErrConnDone)
	switch oracleCode(err) {
	case oraResourceBusy, oraDeadlock, oraNotConnected, oraConnectionLost,
		oraTNSNoListener, oraTNSTimeout, oraSerializeAccess:
		transient = true
	}
	return domain.NewStoreError(op, err, transient)
}
