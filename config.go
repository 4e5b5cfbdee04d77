package wasmi

import "github.com/wuliuqii/wasmi/internal/engine/stack"

// Config configures an Engine, following the teacher's RuntimeConfig
// functional-options idiom (internal/config.go in the wazero sources this
// repo is grounded on): a private struct with documented defaults, built up
// through chained With* calls rather than a public struct literal.
type Config struct {
	maxValueStackHeight int
	maxCallDepth        int
	fuelEnabled         bool
	fuelLimit           uint64
}

// NewConfig returns a Config with the core's default stack bounds and fuel
// metering disabled.
func NewConfig() Config {
	return Config{
		maxValueStackHeight: stack.DefaultMaxValueStackHeight,
		maxCallDepth:        stack.DefaultMaxCallDepth,
	}
}

// WithMaxValueStackHeight overrides the default ValueStack capacity bound.
func (c Config) WithMaxValueStackHeight(n int) Config {
	c.maxValueStackHeight = n
	return c
}

// WithMaxCallDepth overrides the default CallStack depth bound.
func (c Config) WithMaxCallDepth(n int) Config {
	c.maxCallDepth = n
	return c
}

// WithFuel enables fuel metering with the given limit. A zero limit leaves
// metering disabled, matching the teacher's "zero value means off" idiom
// for optional runtime knobs.
func (c Config) WithFuel(limit uint64) Config {
	c.fuelEnabled = limit > 0
	c.fuelLimit = limit
	return c
}
