package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrBlockedDate is returned by ClaimDate when the owner has blocked the
// requested date. Distinct from a unique violation, which means another
// active booking already holds the date.
var ErrBlockedDate = errors.New("date is blocked by the venue owner")

// ErrStaleConversation is returned when a conversation save loses the
// revision compare-and-swap to a concurrent turn.
var ErrStaleConversation = errors.New("conversation was modified concurrently")

// ErrNotFound normalizes gorm's record-not-found across drivers.
var ErrNotFound = errors.New("record not found")

// IsUniqueViolation reports whether err is a unique-constraint conflict.
// Postgres surfaces SQLSTATE 23505 through pgconn; the sqlite driver only
// gives us the message text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func normalizeNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
