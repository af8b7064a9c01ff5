package secret

import (
	"errors"
	"fmt"
)

// ErrReleased is returned for any operation on a handle after Free.
var ErrReleased = errors.New("secret handle has been released")

// NotFoundError indicates a lookup that matched no secret on the host.
type NotFoundError struct {
	// Op is the libvirt call that failed, e.g. "SecretLookupByUUID".
	Op string
	// Err is the underlying connection error.
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: secret not found: %v", e.Op, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// DefinitionError indicates that defining a secret from XML failed,
// typically because the XML was malformed or conflicted with an
// existing definition.
type DefinitionError struct {
	Op  string
	Err error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: failed to define secret: %v", e.Op, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// RetrievalError indicates that reading state from an existing secret
// failed (XML description, value, usage details, or enumeration).
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: failed to retrieve secret data: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
