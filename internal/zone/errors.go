package zone

import (
	"errors"
	"fmt"

	"pdnsadmin/internal/db"
)

// ValidationError marks failures the client can fix by changing its
// request. Everything else is treated as a server-side failure.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ErrEmptyRRSet rejects a replace that would create no records; a
// delete-only replace must be an explicit RRSet delete instead.
var ErrEmptyRRSet = ValidationError{msg: "No valid records to create"}

// PartialDeleteError names the record that could not be removed while
// clearing an RRSet. The enclosing transaction is rolled back, so no
// partial state survives it.
type PartialDeleteError struct {
	RecordID int64
	Err      error
}

func (e PartialDeleteError) Error() string {
	return fmt.Sprintf("failed to delete existing record with ID %d: %v", e.RecordID, e.Err)
}

func (e PartialDeleteError) Unwrap() error { return e.Err }

// IsClientError classifies an error as client-caused (4xx) rather than
// a server/storage failure (5xx).
func IsClientError(err error) bool {
	var v ValidationError
	if errors.As(err, &v) {
		return true
	}
	return errors.Is(err, db.ErrRecordNotFound) ||
		errors.Is(err, db.ErrZoneNotFound) ||
		errors.Is(err, db.ErrInvalidTTL)
}
