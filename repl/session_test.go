package repl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellex-lang/ellex/ioadapter"
	"github.com/ellex-lang/ellex/lang"
	"github.com/ellex-lang/ellex/safety"
)

func newSession(cfg safety.Config) (*Session, *ioadapter.Test) {
	adapter := ioadapter.NewTest()
	return New(adapter, cfg, nil), adapter
}

// Scenario 1: Hello.
func TestScenarioHello(t *testing.T) {
	s, _ := newSession(safety.Default())
	out, err := s.ExecuteLine(`tell "Hello, world!"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello, world!"}, out)
}

// Scenario 2: interpolated greeting via /set.
func TestScenarioInterpolatedGreeting(t *testing.T) {
	s, _ := newSession(safety.Default())

	out1, err := s.ExecuteLine(`/set name "Alice"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Set name = Alice"}, out1)

	out2, err := s.ExecuteLine(`tell "Hi, {name}!"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi, Alice!"}, out2)
}

// Scenario 3: bounded loop.
func TestScenarioBoundedLoop(t *testing.T) {
	s, _ := newSession(safety.Default())
	out, err := s.ExecuteLine(`repeat 3 times do tell "x" end`)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x", "x"}, out)
}

// Scenario 4: loop cap.
func TestScenarioLoopCap(t *testing.T) {
	cfg := safety.Default()
	cfg.MaxLoopIterations = 10
	s, _ := newSession(cfg)
	out, err := s.ExecuteLine(`repeat 11 times do tell "x" end`)
	require.Error(t, err)
	assert.Empty(t, out)
	var sv *lang.SafetyViolation
	require.ErrorAs(t, err, &sv)
	assert.Equal(t, lang.SafetyLoop, sv.Kind)
	assert.Equal(t, float64(10), sv.Limit)
}

// Scenario 6: function redefinition, across separate REPL lines (the
// function table and scopes persist across ExecuteLine calls).
func TestScenarioFunctionRedefinitionAcrossLines(t *testing.T) {
	s, _ := newSession(safety.Default())

	_, err := s.ExecuteLine(`make g do tell "v1" end`)
	require.NoError(t, err)

	out, err := s.ExecuteLine(`g`)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, out)

	_, err = s.ExecuteLine(`make g do tell "v2" end`)
	require.NoError(t, err)

	out, err = s.ExecuteLine(`g`)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, out)
}

// /vars, /funcs, /config, /reset round-trip.
func TestSlashCommands(t *testing.T) {
	s, _ := newSession(safety.Default())

	_, err := s.ExecuteLine(`/set count 3`)
	require.NoError(t, err)
	_, err = s.ExecuteLine(`make greet do tell "hi" end`)
	require.NoError(t, err)

	vars, err := s.ExecuteLine(`/vars`)
	require.NoError(t, err)
	assert.Contains(t, vars, "count = 3")

	funcs, err := s.ExecuteLine(`/funcs`)
	require.NoError(t, err)
	assert.Contains(t, funcs, "greet")

	cfg, err := s.ExecuteLine(`/config`)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg)

	_, err = s.ExecuteLine(`/reset`)
	require.NoError(t, err)
	vars2, err := s.ExecuteLine(`/vars`)
	require.NoError(t, err)
	assert.Equal(t, []string{"(no variables set)"}, vars2)
}

func TestSlashExitReturnsExitError(t *testing.T) {
	s, _ := newSession(safety.Default())
	_, err := s.ExecuteLine(`/exit`)
	require.ErrorIs(t, err, ErrExit)
}

// Session isolation: two sessions never share variables or functions.
func TestSessionsAreIsolated(t *testing.T) {
	s1, _ := newSession(safety.Default())
	s2, _ := newSession(safety.Default())

	_, err := s1.ExecuteLine(`/set name "Alice"`)
	require.NoError(t, err)

	out, err := s2.ExecuteLine(`tell "hi {name}"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi {name}"}, out)
}

// Coroutine-style ask in hosted/web mode: the evaluator suspends, and
// ProvideInput resumes the remaining statements of the same line.
func TestWebAdapterSuspendsAndResumes(t *testing.T) {
	web := ioadapter.NewWeb()
	s := New(web, safety.Default(), nil)

	out, err := s.ExecuteLine(`ask "name?" = name
tell "hi {name}"`)
	require.NoError(t, err)
	assert.Empty(t, out)

	target, waiting := s.Awaiting()
	require.True(t, waiting)
	assert.Equal(t, "name", target)

	out, err = s.ProvideInput("name", "Bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"hi Bob"}, out)

	_, waiting = s.Awaiting()
	assert.False(t, waiting)
}

// A runaway evaluation under a tight quota interrupts with a
// safety-related error, either the timeout or the recursion cap
// firing first depending on relative execution speed, and the
// session survives to be reset and reused afterward, with no leftover
// suspension state.
func TestScenarioRunawayEvaluationIsInterruptedAndSessionSurvives(t *testing.T) {
	cfg := safety.Default()
	cfg.ExecutionTimeoutMS = 50
	s, _ := newSession(cfg)

	_, err := s.ExecuteLine(`make spin do repeat 1 times do spin end end`)
	require.NoError(t, err)

	_, err = s.ExecuteLine(`spin`)
	require.Error(t, err)

	var sv *lang.SafetyViolation
	var to *lang.TimeoutError
	assert.True(t, errors.As(err, &sv) || errors.As(err, &to))

	s.Reset()
	_, waiting := s.Awaiting()
	assert.False(t, waiting)
	out, err := s.ExecuteLine(`tell "still alive"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"still alive"}, out)
}
