// Command ellex is a thin CLI wiring the execution core (lang,
// safety, turtle, repl) to a terminal. serve and tui are implemented
// by an external hosting layer, not this core; this binary covers
// repl and run, enough to exercise the core end to end.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/ellex-lang/ellex/ioadapter"
	"github.com/ellex-lang/ellex/lang"
	"github.com/ellex-lang/ellex/repl"
	"github.com/ellex-lang/ellex/safety"
)

const (
	appName     = "ellex"
	historyFile = ".ellex_history"
	promptMain  = "ellex> "
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "repl":
		os.Exit(cmdRepl())
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "serve", "tui":
		fmt.Fprintf(os.Stderr, "%s: %q is implemented by the hosting layer, not this core\n", appName, os.Args[1])
		os.Exit(2)
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Ellex %s

Usage:
  %s repl          start an interactive session bound to this terminal
  %s run PATH      execute a file non-interactively

Exit codes: 0 success, 1 runtime error, 2 parse error, 3 safety violation.
`, appName, appName, appName)
}

// cmdRun parses and executes a file non-interactively: exit 0 on
// success, 2 on a parse error, 3 on a safety violation, 1 on any
// other runtime error.
func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run PATH\n", appName)
		return 2
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}

	prog, perr := lang.NewParserString(string(src)).ParseProgram()
	if perr != nil {
		fmt.Fprintln(os.Stderr, lang.RenderError(perr))
		return 2
	}

	adapter := ioadapter.NewTest()
	sess := repl.New(adapter, safety.Default(), nil)
	if err := sess.Eval.Execute(prog.Stmts); err != nil {
		fmt.Fprintln(os.Stderr, lang.RenderError(err))
		var sv *lang.SafetyViolation
		var to *lang.TimeoutError
		if errors.As(err, &sv) || errors.As(err, &to) {
			return 3
		}
		return 1
	}
	for _, line := range adapter.Output {
		fmt.Println(line)
	}
	return 0
}

// cmdRepl runs a session bound to the terminal adapter, with liner
// line-editing and a history file persisted between invocations.
func cmdRepl() int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	adapter := ioadapter.NewTerminal(os.Stdout, ln)
	sess := repl.New(adapter, safety.Default(), nil)
	fmt.Println("Ellex REPL. Type /help for commands, /exit to leave.")

	for {
		line, err := ln.Prompt(promptMain)
		if err != nil {
			fmt.Println()
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		out, err := sess.ExecuteLine(line)
		for _, l := range out {
			fmt.Println(l)
		}
		if errors.Is(err, repl.ErrExit) {
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, lang.RenderError(err))
		}
	}
	return 0
}
