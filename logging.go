package greenq

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package default, used by any Coroutine spawned without a
// WithLogger option. It is silent by default, so a library consumer never
// gets unsolicited stderr output until it opts in.
var Logger zerolog.Logger = zerolog.Nop()

// SetLogger replaces the package default logger.
func SetLogger(l zerolog.Logger) {
	Logger = l
}

// NewConsoleLogger is a convenience constructor for a human-readable logger
// suitable for local debugging of coroutine lifecycle events.
func NewConsoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
