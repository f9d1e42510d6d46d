package models

import "fmt"

// Resolution names a rendered image size.
type Resolution string

const (
	ResolutionDefault Resolution = "default"
	ResolutionMedium  Resolution = "medium"
	ResolutionLarge   Resolution = "large"
)

// ResolutionSpec maps a resolution to pixel dimensions and a border crop. The crop
// removes Crop pixels from the right and bottom edges after scaling.
type ResolutionSpec struct {
	Name   Resolution
	Width  int
	Height int
	Crop   int
}

// Validate checks the dimensions leave a non-empty image after cropping.
func (r ResolutionSpec) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("resolution %s: size must be positive", r.Name)
	}
	if r.Crop < 0 || r.Crop >= r.Width || r.Crop >= r.Height {
		return fmt.Errorf("resolution %s: crop %d out of range", r.Name, r.Crop)
	}
	return nil
}

// Container returns the storage folder for the resolution, e.g. "live-medium".
func (r ResolutionSpec) Container(environment string) string {
	return environment + "-" + string(r.Name)
}
