package implementation

import (
	"errors"
	"strings"

	"notekeeper-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translateUserWriteError maps unique index violations on users to contract errors.
func translateUserWriteError(err error) error {
	if err == nil {
		return nil
	}

	var target string
	var pgErr *pgconn.PgError
	var liteErr sqlite3.Error

	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		target = pgErr.ConstraintName + " " + pgErr.Detail
	case errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		target = liteErr.Error()
	case errors.Is(err, gorm.ErrDuplicatedKey):
		target = err.Error()
	default:
		return err
	}

	if strings.Contains(target, "external_chat_id") {
		return contract.ErrDuplicateExternalChatId
	}
	return contract.ErrDuplicateUsername
}
