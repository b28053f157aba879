package vault

import (
	"errors"
	"fmt"

	"github.com/HallyG/filelocker/internal/vault/format"
)

var (
	ErrInvalidFormat = format.ErrInvalidFormat
	// ErrAuthenticationFailed is returned for a wrong password and for a modified
	// container alike; the tag check cannot tell them apart.
	ErrAuthenticationFailed = errors.New("wrong password or file corrupted")
	ErrNilWriter            = errors.New("output writer cannot be nil")
	ErrNilReader            = errors.New("input reader cannot be nil")
)

type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
