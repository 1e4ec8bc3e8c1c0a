package lang

import "fmt"

// RenderError turns an error into kid-friendly phrasing, kept distinct
// from the error value itself so an embedding can localize without
// touching control flow. It never inspects error internals beyond the
// exported fields of this package's error types.
func RenderError(err error) string {
	switch e := err.(type) {
	case *ParseError:
		return fmt.Sprintf("Hmm, that doesn't look like Ellex yet (line %d, column %d): %s", e.Line, e.Column, e.Phrase)
	case *UnknownCommandError:
		if e.Suggestion != "" {
			return fmt.Sprintf("I don't know how to \"%s\"? Did you mean \"%s\"? 🤔", e.Name, e.Suggestion)
		}
		return fmt.Sprintf("I don't know how to \"%s\" yet. 🤔", e.Name)
	case *LogicError:
		return fmt.Sprintf("That didn't quite work: %s", e.Reason)
	case *TimeoutError:
		return "That took too long, so I stopped it. Let's try something quicker! ⏱️"
	case *SafetyViolation:
		return renderSafety(e)
	default:
		return err.Error()
	}
}

func renderSafety(e *SafetyViolation) string {
	switch e.Kind {
	case SafetyLoop:
		return fmt.Sprintf("Whoa! That's a lot of repetitions (more than %v). Let's try something smaller! 🐌", e.Limit)
	case SafetyRecursion:
		return fmt.Sprintf("These steps are calling each other too many times (more than %v). Let's simplify! 🔁", e.Limit)
	case SafetyMemory:
		return "That used up too much memory for me to keep track of. Let's try something smaller! 🧠"
	case SafetyOutput:
		return "That printed way too much! Let's tell a shorter story. 📜"
	case SafetyTimeout:
		return "That took too long, so I stopped it. Let's try something quicker! ⏱️"
	default:
		return fmt.Sprintf("That hit a safety limit (%s): %v", e.Kind, e.Limit)
	}
}
