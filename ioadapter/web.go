package ioadapter

// Web buffers tell output and always suspends on ask: a web-session
// embedding has no synchronous way to answer a prompt, so every
// Prompt call returns ErrSuspend immediately. The matching
// provide_input step is implemented by repl.Session.ProvideInput,
// which mutates the session's scope directly and resumes evaluation,
// not by this adapter resolving Prompt's return value; suspension is
// modeled as the evaluator returning control, not an async-colored
// Prompt call.
type Web struct {
	Output []string
}

func NewWeb() *Web { return &Web{} }

func (w *Web) WriteLine(text string) {
	w.Output = append(w.Output, text)
}

func (w *Web) Prompt(string) (string, error) {
	return "", ErrSuspend
}
