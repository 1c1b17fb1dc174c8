package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing users, files and records.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument covers malformed day strings and unknown status kinds.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSchema means a source file violated the sensing-data contract,
	// e.g. no recognizable time column. A client cannot cause it.
	ErrSchema = errors.New("schema violation")
)

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

func schemaf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSchema)
}
