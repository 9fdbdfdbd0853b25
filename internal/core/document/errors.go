package document

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotFound = errors.New("source not found")

	errIsDirectory = errors.New("is a directory")
)

func sourceError(name string, err error) error {
	return fmt.Errorf("%w: open %s: %w", ErrSourceNotFound, name, err)
}
