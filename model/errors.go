package model

import (
	"errors"
	"fmt"
)

// Errors returned by the model. Errors are wrapped with context, clients
// should check them with errors.Is.
var (
	// ErrInvalidIdentifier flags a tag or key which is not made of lowercase letters.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrInvalidValue flags a value containing a line separator.
	ErrInvalidValue = errors.New("invalid value")
	// ErrParse flags a value which cannot be converted to the requested type.
	ErrParse = errors.New("parse error")
	// ErrInvalidState flags an operation which would break a node invariant.
	ErrInvalidState = errors.New("invalid state")
)

// UnknownEntityError is the panic value for operations on an entity which is
// not (or no longer) registered with a model. Passing dead entities is a
// programming error.
type UnknownEntityError struct {
	Entity Entity
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity %s", e.Entity)
}
