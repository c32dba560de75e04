package usecase

import (
	"errors"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")

	// ErrDuplicateGame is returned when the target table already holds rows
	// for the submitted match id.
	ErrDuplicateGame      = crerr.New("records with the same match id already exist, contact an administrator to delete them before uploading again")
	ErrTokenAcquisition   = crerr.New("tenant access token acquisition failed")
	ErrSearchFailed       = crerr.New("record search failed")
	ErrInsertFailed       = crerr.New("record insert failed")
	ErrInvalidCredentials = crerr.New("invalid username or password")
	ErrSessionInvalid     = crerr.New("session expired or invalid")
)

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateGame)
}
