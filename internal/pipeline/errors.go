package pipeline

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned (wrapped) when a required input file is absent.
var ErrMissingInput = errors.New("missing input")

// MissingInputError names the absent artifact.
type MissingInputError struct {
	Artifact string
	Path     string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input %s: %s", e.Artifact, e.Path)
}

func (e *MissingInputError) Unwrap() error {
	return ErrMissingInput
}
