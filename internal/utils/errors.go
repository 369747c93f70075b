package utils

import "errors"

// Common application errors used across services and handlers.
var (
	ErrInvalidToken  = errors.New("INVALID_TOKEN")
	ErrMissingUser   = errors.New("MISSING_USER")
	ErrInvalidFilter = errors.New("INVALID_FILTER")
)

// CRUD operations a CrudError can originate from.
const (
	OpCreate     = "create"
	OpEdit       = "edit"
	OpDelete     = "delete"
	OpRead       = "read"
	OpCleanTrash = "clean_trash"
	OpSelect     = "select"
)

// CrudError is the single failure kind surfaced by the catalog services. The
// message is fixed per operation; the store error is kept as the cause.
type CrudError struct {
	Op      string
	Message string
	Err     error
}

// NewCrudError wraps err with the fixed message of op.
func NewCrudError(op, message string, err error) *CrudError {
	return &CrudError{Op: op, Message: message, Err: err}
}

func (e *CrudError) Error() string {
	return e.Message
}

func (e *CrudError) Unwrap() error {
	return e.Err
}

// AsCrudError reports whether err is, or wraps, a CrudError.
func AsCrudError(err error) (*CrudError, bool) {
	var ce *CrudError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
