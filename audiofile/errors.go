package audiofile

import "errors"

var (
	// ErrUnsupportedFormat is returned for unknown file extensions or
	// encodings the decoders cannot handle.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	// ErrInvalidFile is returned when a file is not a valid stream of the
	// expected format.
	ErrInvalidFile = errors.New("audiofile: invalid file")
	// ErrEmpty is returned when a file decodes to zero samples or when there
	// is nothing to write.
	ErrEmpty = errors.New("audiofile: no samples")
)
