package ioadapter

import (
	"fmt"
	"io"

	"github.com/peterh/liner"
)

// Terminal reads stdin and writes stdout via github.com/peterh/liner.
type Terminal struct {
	out io.Writer
	ln  *liner.State
}

// NewTerminal wraps a *liner.State already configured by the caller
// (history loaded, SetCtrlCAborts set, etc., see cmd/ellex/main.go) so
// this type stays a thin adapter rather than owning process lifecycle
// concerns.
func NewTerminal(out io.Writer, ln *liner.State) *Terminal {
	return &Terminal{out: out, ln: ln}
}

func (t *Terminal) WriteLine(text string) {
	fmt.Fprintln(t.out, text)
}

func (t *Terminal) Prompt(text string) (string, error) {
	return t.ln.Prompt(text)
}
