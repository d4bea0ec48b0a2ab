package builder

import "time"

// Result records the outcome of a compile-and-link pass. It is transient;
// nothing here is persisted between invocations.
type Result struct {
	// ID uniquely identifies this build pass.
	ID string `json:"id"`
	// Objects lists the object files produced, in declared source order.
	Objects []string `json:"objects"`
	// Skipped lists declared sources that were missing on disk.
	Skipped []string `json:"skipped,omitempty"`
	// Binary is the linked executable path, empty until Link succeeds.
	Binary string `json:"binary,omitempty"`
	// Duration covers the compile phase.
	Duration time.Duration `json:"duration"`
}
