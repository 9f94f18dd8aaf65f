package errors

import "errors"

var (
	ErrAuthenticationMissing = errors.New("authentication missing")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrPrivilegeDenied       = errors.New("privilege denied")
	ErrConflictDetected      = errors.New("conflict of interest detected")

	ErrMatterNotFound   = errors.New("matter not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrWallNotFound     = errors.New("ethical wall not found")
	ErrWallConflict     = errors.New("ethical wall conflict")
	ErrWaiverNotFound   = errors.New("waiver not found")

	ErrInvalidWallData   = errors.New("invalid ethical wall data")
	ErrInvalidWaiverData = errors.New("invalid waiver data")
	ErrInvalidPolicyData = errors.New("invalid route policy data")

	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
)
