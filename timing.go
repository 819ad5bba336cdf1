// FILE: lixenwraith/typedconf/timing.go
package typedconf

import "time"

// Core timing constants for file watching.
const (
	MinDebounce     = 10 * time.Millisecond  // Hard floor for event coalescence
	DefaultDebounce = 250 * time.Millisecond // File change coalescence period
)

// Derived values for internal use.
const (
	// subscriberBuffer is the capacity of each subscriber channel
	subscriberBuffer = 10
)
