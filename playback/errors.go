package playback

import "errors"

// ErrDevice wraps failures to open, start or resume an output stream.
var ErrDevice = errors.New("playback: audio device failure")
