// Package repository contains data access for the supervision domain and the
// error taxonomy shared with the layers above it. Sentinel kinds let handlers
// pick a status code with errors.Is while the wrapping DomainError carries
// the message shown to the client.
package repository

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/database"
)

var (
	// ErrConflict signals a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrNotFound signals that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState signals a role or precondition mismatch.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnauthorized signals a credential failure. It never says which part
	// of the credentials was wrong.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrReferentialIntegrity signals a foreign key rejected by the store on a
	// write path that does not pre-check its references.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

// DomainError pairs a taxonomy kind with a client-facing message.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }
func (e *DomainError) Unwrap() error { return e.Kind }

// NewError builds a DomainError of the given kind.
func NewError(kind error, format string, args ...interface{}) error {
	return &DomainError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// mapWriteErr converts constraint failures into taxonomy errors and wraps
// everything else with op for context.
func mapWriteErr(err error, op, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err):
		return NewError(ErrConflict, "%s", conflictMsg)
	case database.IsForeignKeyViolation(err):
		return NewError(ErrReferentialIntegrity, "%s: referenced record does not exist", op)
	}
	return errors.Wrap(err, op)
}
