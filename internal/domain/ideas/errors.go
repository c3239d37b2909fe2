package ideas

import "errors"

// ErrNotFound is returned by repositories when an analysis does not exist
var ErrNotFound = errors.New("analysis not found")
