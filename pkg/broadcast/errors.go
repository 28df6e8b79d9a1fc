package broadcast

import "errors"

var (
	// ErrHubClosed is returned when subscribing to a closed hub.
	ErrHubClosed = errors.New("broadcast: hub is closed")
	// ErrShutdownTimeout is returned when Close exceeds the shutdown timeout.
	ErrShutdownTimeout = errors.New("broadcast: shutdown timed out")
)
