package reservation

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// exclusionConstraintCode is the Postgres SQLSTATE for an
// exclusion-constraint violation.
const exclusionConstraintCode = "23P01"

// DatabaseError wraps any storage failure not otherwise classified. Two
// DatabaseError values are considered equal by kind alone, never by
// payload, per spec.
type DatabaseError struct {
	Err error
}

func NewDatabaseError(err error) *DatabaseError { return &DatabaseError{Err: err} }

func (e *DatabaseError) Error() string { return fmt.Sprintf("database error: %v", e.Err) }
func (e *DatabaseError) Unwrap() error { return e.Err }
func (e *DatabaseError) Is(target error) bool {
	_, ok := target.(*DatabaseError)
	return ok
}

// ConflictReservationError is returned when an insert is rejected by the
// resource's interval-exclusion constraint.
type ConflictReservationError struct {
	Info ConflictInfo
}

func NewConflictReservationError(info ConflictInfo) *ConflictReservationError {
	return &ConflictReservationError{Info: info}
}

func (e *ConflictReservationError) Error() string {
	return fmt.Sprintf("conflict with existing reservation: %s", e.Info)
}
func (e *ConflictReservationError) Is(target error) bool {
	other, ok := target.(*ConflictReservationError)
	if !ok {
		return false
	}
	return e.Info.Equal(other.Info)
}

// InvalidTimespanError reports a missing or non-monotone interval.
type InvalidTimespanError struct{}

func NewInvalidTimespanError() *InvalidTimespanError { return &InvalidTimespanError{} }

func (e *InvalidTimespanError) Error() string { return "invalid start or end time for the reservation" }
func (e *InvalidTimespanError) Is(target error) bool {
	_, ok := target.(*InvalidTimespanError)
	return ok
}

// InvalidReservationIDError reports a caller-supplied id that is not a
// well-formed UUID.
type InvalidReservationIDError struct{ Raw string }

func NewInvalidReservationIDError(raw string) *InvalidReservationIDError {
	return &InvalidReservationIDError{Raw: raw}
}

func (e *InvalidReservationIDError) Error() string {
	return fmt.Sprintf("invalid reservation id: %s", e.Raw)
}
func (e *InvalidReservationIDError) Is(target error) bool {
	other, ok := target.(*InvalidReservationIDError)
	return ok && other.Raw == e.Raw
}

// InvalidUserIDError reports an empty user id on create.
type InvalidUserIDError struct{ Raw string }

func NewInvalidUserIDError(raw string) *InvalidUserIDError { return &InvalidUserIDError{Raw: raw} }

func (e *InvalidUserIDError) Error() string { return fmt.Sprintf("invalid user id: %s", e.Raw) }
func (e *InvalidUserIDError) Is(target error) bool {
	other, ok := target.(*InvalidUserIDError)
	return ok && other.Raw == e.Raw
}

// InvalidResourceIDError reports an empty resource id on create.
type InvalidResourceIDError struct{ Raw string }

func NewInvalidResourceIDError(raw string) *InvalidResourceIDError {
	return &InvalidResourceIDError{Raw: raw}
}

func (e *InvalidResourceIDError) Error() string {
	return fmt.Sprintf("invalid resource id: %s", e.Raw)
}
func (e *InvalidResourceIDError) Is(target error) bool {
	other, ok := target.(*InvalidResourceIDError)
	return ok && other.Raw == e.Raw
}

// NotFoundError is returned uniformly whether a row never existed, was
// already deleted, or failed a conditional update.
type NotFoundError struct{}

func NewNotFoundError() *NotFoundError { return &NotFoundError{} }

func (e *NotFoundError) Error() string { return "no reservation found by given condition" }
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// UnknownError is reserved for unclassifiable failures.
type UnknownError struct{}

func NewUnknownError() *UnknownError { return &UnknownError{} }

func (e *UnknownError) Error() string { return "unknown error" }
func (e *UnknownError) Is(target error) bool {
	_, ok := target.(*UnknownError)
	return ok
}

// ClassifyStoreError routes a raw storage failure into the taxonomy:
// an exclusion-constraint violation on rsvp.reservations becomes a
// ConflictReservationError (with its detail parsed), a missing-row
// failure becomes NotFoundError, everything else is wrapped verbatim in
// DatabaseError.
func ClassifyStoreError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError()
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == exclusionConstraintCode &&
			pgErr.SchemaName == "rsvp" &&
			pgErr.TableName == "reservations" {
			return NewConflictReservationError(ParseConflictInfo(pgErr.Detail))
		}
	}

	return NewDatabaseError(err)
}
