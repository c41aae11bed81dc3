package reportdef

import "errors"

// ErrInvalidConfiguration marks structurally invalid setup: a reserved
// variable name, an unknown variable type, or a date variable used without
// a format. Match with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInvalidValue marks a value that failed the type-specific validator:
// an unparsable or non-round-tripping date, or a select key that is not in
// the declared option set. Match with errors.Is.
var ErrInvalidValue = errors.New("invalid value")
