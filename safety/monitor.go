package safety

import (
	"fmt"
	"time"
)

// Kind names the subkind of quota a Violation exceeded.
type Kind string

const (
	KindTimeout   Kind = "timeout"
	KindMemory    Kind = "memory"
	KindRecursion Kind = "recursion"
	KindLoop      Kind = "loop"
	KindOutput    Kind = "output"
)

// Violation is the generic error a Monitor raises when a quota is
// exceeded. It deliberately carries no dependency on the lang package;
// the evaluator translates a Violation into lang.SafetyViolation or
// lang.TimeoutError so the monitor stays reusable outside Ellex's own
// error-rendering layer.
type Violation struct {
	Kind  Kind
	Limit float64
}

func (v *Violation) Error() string {
	return fmt.Sprintf("safety: %s limit %v exceeded", v.Kind, v.Limit)
}

const warnThreshold = 0.8

// loopFrame tracks one active repeat loop's bound and iteration count.
type loopFrame struct {
	limit   int
	count   int
	warned  bool
}

// Monitor is the per-evaluation accounting object: it tracks wall
// clock, instruction count, recursion depth, loop iterations, memory
// estimate and output volume against a fixed Config. A fresh Monitor
// (or a Reset one) is used for exactly one top-level evaluation;
// thresholds never change mid-evaluation.
type Monitor struct {
	cfg       Config
	startTime time.Time

	instructionCount int64
	recursionDepth   int
	memoryEstimate   int64
	outputBytes      int64

	loops []loopFrame

	warnedTime      bool
	warnedMemory    bool
	warnedRecursion bool
	warnedOutput    bool

	metrics *Metrics
}

// NewMonitor starts a Monitor's clock immediately at construction,
// not on first Tick.
func NewMonitor(cfg Config, metrics *Metrics) *Monitor {
	m := &Monitor{cfg: cfg, startTime: time.Now()}
	m.metrics = metrics
	return m
}

// Reset rearms the monitor for the next top-level evaluation. Quota
// counters always reset per top-level evaluation rather than
// accumulating across a REPL session.
func (m *Monitor) Reset() {
	m.startTime = time.Now()
	m.instructionCount = 0
	m.recursionDepth = 0
	m.memoryEstimate = 0
	m.outputBytes = 0
	m.loops = m.loops[:0]
	m.warnedTime, m.warnedMemory, m.warnedRecursion, m.warnedOutput = false, false, false, false
}

// Tick increments the instruction count and checks the wall-clock
// limit; the instruction count itself has no cap. It returns a
// non-empty warning when elapsed time first crosses 80% of the
// timeout, and a *Violation when the timeout is exceeded.
func (m *Monitor) Tick() (warning string, err error) {
	m.instructionCount++
	if m.metrics != nil {
		m.metrics.instructions.Inc()
	}
	elapsed := time.Since(m.startTime)
	limit := time.Duration(m.cfg.ExecutionTimeoutMS) * time.Millisecond
	if elapsed > limit {
		return "", &Violation{Kind: KindTimeout, Limit: float64(m.cfg.ExecutionTimeoutMS)}
	}
	if !m.warnedTime && limit > 0 && float64(elapsed) >= warnThreshold*float64(limit) {
		m.warnedTime = true
		warning = fmt.Sprintf("Getting close to the time limit (%dms)...", m.cfg.ExecutionTimeoutMS)
	}
	return warning, nil
}

// EnterLoop registers a new repeat loop about to run n times. A
// requested count exceeding the cap raises a loop Violation before
// any iteration of the body executes; there is no clamp-and-continue.
func (m *Monitor) EnterLoop(n int) error {
	if n > m.cfg.MaxLoopIterations {
		return &Violation{Kind: KindLoop, Limit: float64(m.cfg.MaxLoopIterations)}
	}
	m.loops = append(m.loops, loopFrame{limit: m.cfg.MaxLoopIterations})
	if m.metrics != nil {
		m.metrics.loopDepth.Set(float64(len(m.loops)))
	}
	return nil
}

// LoopStep advances the current (innermost) loop frame's iteration
// counter and checks it against the cap, with an 80% warning.
func (m *Monitor) LoopStep() (warning string, err error) {
	if len(m.loops) == 0 {
		return "", nil
	}
	f := &m.loops[len(m.loops)-1]
	f.count++
	if f.count > f.limit {
		return "", &Violation{Kind: KindLoop, Limit: float64(f.limit)}
	}
	if !f.warned && f.limit > 0 && float64(f.count) >= warnThreshold*float64(f.limit) {
		f.warned = true
		warning = fmt.Sprintf("This loop is getting close to its limit of %d repetitions...", f.limit)
	}
	return warning, nil
}

// ExitLoop pops the innermost loop frame on normal completion.
func (m *Monitor) ExitLoop() {
	if len(m.loops) == 0 {
		return
	}
	m.loops = m.loops[:len(m.loops)-1]
	if m.metrics != nil {
		m.metrics.loopDepth.Set(float64(len(m.loops)))
	}
}

// EnterCall increments recursion depth and checks it against
// max_recursion_depth.
func (m *Monitor) EnterCall() (warning string, err error) {
	m.recursionDepth++
	if m.metrics != nil {
		m.metrics.recursionDepth.Set(float64(m.recursionDepth))
	}
	if m.recursionDepth > m.cfg.MaxRecursionDepth {
		return "", &Violation{Kind: KindRecursion, Limit: float64(m.cfg.MaxRecursionDepth)}
	}
	if !m.warnedRecursion && m.cfg.MaxRecursionDepth > 0 &&
		float64(m.recursionDepth) >= warnThreshold*float64(m.cfg.MaxRecursionDepth) {
		m.warnedRecursion = true
		warning = fmt.Sprintf("These steps are calling each other a lot (more than %d)...", m.cfg.MaxRecursionDepth)
	}
	return warning, nil
}

// ExitCall decrements recursion depth on return.
func (m *Monitor) ExitCall() {
	if m.recursionDepth > 0 {
		m.recursionDepth--
	}
	if m.metrics != nil {
		m.metrics.recursionDepth.Set(float64(m.recursionDepth))
	}
}

// NoteOutput accumulates output volume and enforces an output-byte
// cap. There is no separate output-limit setting; output shares the
// memory budget, so the cap is MemoryLimitMB expressed in bytes.
func (m *Monitor) NoteOutput(n int) (warning string, err error) {
	m.outputBytes += int64(n)
	limit := int64(m.cfg.MemoryLimitMB) * 1024 * 1024
	if m.metrics != nil {
		m.metrics.outputBytes.Add(float64(n))
	}
	if m.outputBytes > limit {
		return "", &Violation{Kind: KindOutput, Limit: float64(limit)}
	}
	if !m.warnedOutput && limit > 0 && float64(m.outputBytes) >= warnThreshold*float64(limit) {
		m.warnedOutput = true
		warning = "That's a lot of output! Getting close to the limit..."
	}
	return warning, nil
}

// EstimateMemory adds delta bytes to the running memory estimate and
// checks it against the configured cap. The evaluator computes delta
// as held string lengths plus a constant per binding or command-log
// entry, each time one is added.
func (m *Monitor) EstimateMemory(delta int64) (warning string, err error) {
	m.memoryEstimate += delta
	limit := int64(m.cfg.MemoryLimitMB) * 1024 * 1024
	if m.metrics != nil {
		m.metrics.memoryEstimate.Set(float64(m.memoryEstimate))
	}
	if m.memoryEstimate > limit {
		return "", &Violation{Kind: KindMemory, Limit: float64(m.cfg.MemoryLimitMB)}
	}
	if !m.warnedMemory && limit > 0 && float64(m.memoryEstimate) >= warnThreshold*float64(limit) {
		m.warnedMemory = true
		warning = fmt.Sprintf("Using a lot of memory, getting close to %dMB...", m.cfg.MemoryLimitMB)
	}
	return warning, nil
}

// InstructionCount, RecursionDepth and Elapsed expose the counters for
// tests that check quota counters only ever move forward.
func (m *Monitor) InstructionCount() int64       { return m.instructionCount }
func (m *Monitor) RecursionDepth() int           { return m.recursionDepth }
func (m *Monitor) Elapsed() time.Duration        { return time.Since(m.startTime) }
