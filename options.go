package greenq

import "github.com/rs/zerolog"

// SpawnOption configures a single Spawn call. The functional-options shape
// is used rather than a config struct, since most spawns need zero or one
// override and Go's variadic-options idiom reads cleanly at call sites.
type SpawnOption func(*spawnConfig)

type spawnConfig struct {
	stackSize uintptr
	logger    *zerolog.Logger
}

// WithStackSize overrides the default stack size hint for one Spawn call.
// A value of 0 is equivalent to omitting the option.
func WithStackSize(n uintptr) SpawnOption {
	return func(c *spawnConfig) {
		if n != 0 {
			c.stackSize = n
		}
	}
}

// WithLogger attaches a logger to the spawned coroutine, used for its
// lifecycle diagnostics (spawn, resume, await, finish). Omitting
// this option leaves the coroutine logging through the package default,
// Logger.
func WithLogger(l zerolog.Logger) SpawnOption {
	return func(c *spawnConfig) {
		c.logger = &l
	}
}
