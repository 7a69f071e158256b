package learning

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var ErrSectionNotFound = errors.New("section not found")

const pgForeignKeyViolation = "23503"

// mapWriteError turns driver-level constraint failures into repo sentinels.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrSectionNotFound
	}
	return err
}
