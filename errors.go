package instance

import "github.com/timecoach/instance/errors"

// Sentinel errors re-exported for callers that only import the root package. Use errors.Is to match.
var (
	ErrConstruction         = errors.ErrConstruction
	ErrPropertyNotFound     = errors.ErrPropertyNotFound
	ErrPropertyTypeMismatch = errors.ErrPropertyTypeMismatch
	ErrSetProperty          = errors.ErrSetProperty
	ErrInvalidSetter        = errors.ErrInvalidSetter
	ErrDuplicateSetter      = errors.ErrDuplicateSetter
	ErrInvalidDescriptor    = errors.ErrInvalidDescriptor
	ErrDuplicateDescriptor  = errors.ErrDuplicateDescriptor
	ErrSetDefault           = errors.ErrSetDefault
)
