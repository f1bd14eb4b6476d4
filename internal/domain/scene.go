package domain

import "time"

// FileType identifies a recognized category of raw observation file.
// The set is closed: discovery and extraction switch over exactly these
// values and treat anything else as a programming error.
type FileType string

const (
	FileTypeImage   FileType = "image"
	FileTypeGridded FileType = "gridded"
)

// FileTypes lists the categories in the order the pipeline processes them.
var FileTypes = []FileType{FileTypeImage, FileTypeGridded}

// Extensions returns the filename extensions (without dot) recognized for
// the file type, in the order discovery globs them.
func (ft FileType) Extensions() []string {
	switch ft {
	case FileTypeImage:
		return []string{"png", "jpg", "jpeg"}
	case FileTypeGridded:
		return []string{"nc", "nc4"}
	default:
		return nil
	}
}

// Scene is one individually addressable slice of observation data: a whole
// image, or a single step along a gridded file's scene_id or time axis.
// By the time a Scene exists its data has already been written to Path.
type Scene struct {
	ID          string
	Path        string
	ExtractedAt time.Time
}
