package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type storeErrorKind int

const (
	storeErrOther storeErrorKind = iota
	storeErrUnique
	storeErrForeignKey
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"

	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// classifyStoreError tells constraint violations apart from everything else,
// whichever driver produced them.
func classifyStoreError(err error) storeErrorKind {
	if err == nil {
		return storeErrOther
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return storeErrUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return storeErrForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromSQLState(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fromSQLState(string(pqErr.Code))
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return storeErrUnique
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return storeErrForeignKey
		}
		return storeErrOther
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"),
		strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "Duplicate entry"):
		return storeErrUnique
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "violates foreign key constraint"),
		strings.Contains(msg, "a foreign key constraint fails"):
		return storeErrForeignKey
	}
	return storeErrOther
}

func fromSQLState(code string) storeErrorKind {
	switch code {
	case sqlStateUniqueViolation:
		return storeErrUnique
	case sqlStateForeignKeyViolation:
		return storeErrForeignKey
	default:
		return storeErrOther
	}
}
