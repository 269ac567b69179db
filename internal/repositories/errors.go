package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/andyriles/meal-ordering-service-backend/internal/domain"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

// unavailableErr wraps a failed read. Typed domain errors pass through.
func unavailableErr(resource string, err error) error {
	if domain.IsDomain(err) {
		return err
	}
	return domain.UnavailableError{Resource: resource, Err: err}
}

// storeErr classifies write and lookup failures.
func storeErr(resource string, err error) error {
	if err == nil || domain.IsDomain(err) {
		return err
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return domain.ConflictError{Resource: resource, Msg: "already exists", Err: err}
	}
	if isConnErr(err) {
		return domain.UnavailableError{Resource: resource, Err: err}
	}
	return domain.InternalError{Msg: "database error", Err: err}
}

func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
