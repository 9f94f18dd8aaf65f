package errors

import (
	"fmt"

	"github.com/counselware/praxis/model"
)

// AccessDeniedError carries the denial reason and the classification or
// conflict metadata the caller needs to surface to the end user. It wraps one
// of the category sentinels so callers can branch with errors.Is.
type AccessDeniedError struct {
	Reason         string
	Classification *model.Classification
	ConflictType   model.ConflictType
	cause          error
}

// NewPermissionDenial builds a denial for a failed permission check.
func NewPermissionDenial(reason string) *AccessDeniedError {
	return &AccessDeniedError{Reason: reason, cause: ErrPermissionDenied}
}

// NewPrivilegeDenial builds a denial for a failed privilege classification.
func NewPrivilegeDenial(reason string, classification model.Classification) *AccessDeniedError {
	return &AccessDeniedError{
		Reason:         reason,
		Classification: &classification,
		cause:          ErrPrivilegeDenied,
	}
}

// NewConflictDenial builds a denial for a detected conflict of interest.
func NewConflictDenial(reason string, conflictType model.ConflictType) *AccessDeniedError {
	return &AccessDeniedError{
		Reason:       reason,
		ConflictType: conflictType,
		cause:        ErrConflictDetected,
	}
}

func (e *AccessDeniedError) Error() string {
	if e.ConflictType != "" && e.ConflictType != model.ConflictTypeNone {
		return fmt.Sprintf("access denied (%s): %s", e.ConflictType, e.Reason)
	}
	if e.Classification != nil {
		return fmt.Sprintf("access denied (%s): %s", e.Classification, e.Reason)
	}
	return fmt.Sprintf("access denied: %s", e.Reason)
}

func (e *AccessDeniedError) Unwrap() error {
	return e.cause
}
