package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound reports a path that does not exist or cannot be stat'd.
var ErrFileNotFound = errors.New("file not found")

// UnsupportedTypeError reports a file extension no extractor is registered
// for. Supported lists the extensions the registry currently handles.
type UnsupportedTypeError struct {
	Ext       string
	Supported []string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q (supported: %s)", e.Ext, strings.Join(e.Supported, ", "))
}

// ExtractionError wraps a failure while extracting a specific file.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
