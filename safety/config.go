// Package safety implements quota accounting for an evaluation:
// instruction, wall-clock, recursion, loop-iteration, memory, and
// output quotas, plus the 80%-threshold warnings that accompany them.
package safety

// Config is the flat tunables struct for a session's quotas.
type Config struct {
	ExecutionTimeoutMS int
	MemoryLimitMB      int
	MaxRecursionDepth  int
	MaxLoopIterations  int
	EnableTurtle       bool
	EnableAI           bool
}

// Default returns sensible quotas for a kid-facing session: 5000ms
// timeout, 64MB memory, recursion depth 100, loop iterations 10000,
// turtle enabled, AI ignored by the core.
func Default() Config {
	return Config{
		ExecutionTimeoutMS: 5000,
		MemoryLimitMB:      64,
		MaxRecursionDepth:  100,
		MaxLoopIterations:  10000,
		EnableTurtle:       true,
		EnableAI:           false,
	}
}
