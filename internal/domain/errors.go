package domain

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when a data directory contains no file with a
// recognized extension in any category.
var ErrNoInput = errors.New("no valid source files found")

// ErrUnsupportedSource is returned for gridded files that define neither a
// scene_id nor a time coordinate, leaving no axis to partition on.
var ErrUnsupportedSource = errors.New("gridded source must have a scene_id or time coordinate")

// DuplicateSceneIDError reports a scene identifier collision. Scene ids must
// be unique across the whole run; a collision aborts it rather than silently
// overwriting an entry.
type DuplicateSceneIDError struct {
	ID string
}

func (e DuplicateSceneIDError) Error() string {
	return fmt.Sprintf("duplicate scene id %q", e.ID)
}

// UnrecognizedFileTypeError reports a FileType outside the closed category
// set. Unreachable through normal discovery; kept so the extractor's switch
// fails loudly instead of dropping files.
type UnrecognizedFileTypeError struct {
	FileType FileType
}

func (e UnrecognizedFileTypeError) Error() string {
	return fmt.Sprintf("unrecognized file type %q", string(e.FileType))
}
