package lang

import "strings"

// Scope resolves a variable by name for interpolation purposes; the
// evaluator's scope stack satisfies this.
type Scope interface {
	Resolve(name string) (Value, error)
}

// Interpolate replaces {name} placeholders in s with the string
// coercion of the variable's current value. A name that does not
// resolve is left untouched, literal braces and all; it's never an
// error.
func Interpolate(s string, scope Scope) string {
	if !strings.ContainsRune(s, '{') {
		return s
	}
	var out strings.Builder
	i := 0
	for i < len(s) {
		open := strings.IndexByte(s[i:], '{')
		if open < 0 {
			out.WriteString(s[i:])
			break
		}
		open += i
		out.WriteString(s[i:open])
		close := strings.IndexByte(s[open:], '}')
		if close < 0 {
			out.WriteString(s[open:])
			break
		}
		close += open
		name := s[open+1 : close]
		if val, err := scope.Resolve(name); err == nil {
			out.WriteString(val.String())
		} else {
			out.WriteString(s[open : close+1])
		}
		i = close + 1
	}
	return out.String()
}
